package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSend_FansOutToBaseAndCollector(t *testing.T) {
	base := &Recorder{}
	ctx, rec := WithCollector(context.Background())

	Success(ctx, base, "Visão salva")
	Error(ctx, base, "Erro ao carregar visões salvas")

	require.Equal(t, []Notice{
		{Level: LevelSuccess, Message: "Visão salva"},
		{Level: LevelError, Message: "Erro ao carregar visões salvas"},
	}, rec.Notices())
	require.Equal(t, rec.Notices(), base.Notices())
}

func TestSend_NoCollector(t *testing.T) {
	base := &Recorder{}
	Warning(context.Background(), base, "aviso")
	require.Len(t, base.Notices(), 1)

	require.NotPanics(t, func() {
		Success(context.Background(), nil, "ignored")
	})
}

func TestLogNotifier(t *testing.T) {
	require.NotPanics(t, func() {
		NewLog().Notify(context.Background(), Notice{Level: LevelWarning, Message: "x"})
	})
}

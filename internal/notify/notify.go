// Package notify carries fire-and-forget success/error messages meant for
// the person operating the dashboard.
package notify

import (
	"context"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

type logNotifier struct{}

// NewLog returns a notifier that writes every notice to the request logger.
func NewLog() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, notice Notice) {
	logger := logutil.GetLogger(ctx).With(zap.String("level", string(notice.Level)))
	switch notice.Level {
	case LevelError, LevelWarning:
		logger.Warn("notice", zap.String("message", notice.Message))
	default:
		logger.Info("notice", zap.String("message", notice.Message))
	}
}

type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, notice Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, notice)
	r.mu.Unlock()
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

type collectorKey struct{}

// WithCollector attaches a Recorder to ctx so the caller can surface the
// notices produced while serving one request.
func WithCollector(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, collectorKey{}, rec), rec
}

func collector(ctx context.Context) *Recorder {
	rec, _ := ctx.Value(collectorKey{}).(*Recorder)
	return rec
}

// Send delivers to base (which may be nil) and to the collector in ctx, if any.
func Send(ctx context.Context, base Notifier, level Level, message string) {
	notice := Notice{Level: level, Message: message}
	if base != nil {
		base.Notify(ctx, notice)
	}
	if rec := collector(ctx); rec != nil {
		rec.Notify(ctx, notice)
	}
}

func Success(ctx context.Context, base Notifier, message string) {
	Send(ctx, base, LevelSuccess, message)
}

func Warning(ctx context.Context, base Notifier, message string) {
	Send(ctx, base, LevelWarning, message)
}

func Error(ctx context.Context, base Notifier, message string) {
	Send(ctx, base, LevelError, message)
}

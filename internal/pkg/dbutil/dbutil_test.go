package dbutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalize_Rebind(t *testing.T) {
	query, args := Finalize("UPDATE kv_store SET kv_value=?,mtime=? WHERE (kv_key=?)", []interface{}{"v", 1, "k"})
	require.Equal(t, "UPDATE kv_store SET kv_value=$1,mtime=$2 WHERE (kv_key=$3)", query)
	require.Len(t, args, 3)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.True(t, IsConflict(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	require.False(t, IsConflict(&pq.Error{Code: "42P01"}))
	require.False(t, IsConflict(errors.New("boom")))
}

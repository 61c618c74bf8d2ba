package middleware

import (
	"bytes"
	"log/slog"
	"testing"

	"flowstore/internal/logging"
	"flowstore/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newStore(t, Logger[int](logger))

	_, err := s.Dispatch(add{By: 1})
	require.NoError(t, err)
	_, err = s.Dispatch(42)
	require.ErrorIs(t, err, store.ErrInvalidAction)

	out := buf.String()
	assert.Contains(t, out, "dispatched action=test/add")
	assert.Contains(t, out, "dispatch rejected action=async")
}

func TestLogger_DefaultLogger(t *testing.T) {
	s := newStore(t, Logger[int](nil))

	_, err := s.Dispatch(reset)

	assert.NoError(t, err)
}

package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := ID(ctx)
	assert.False(t, ok)

	ctx = WithID(ctx, "abc123")
	id, ok := ID(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc123", id)
}

func TestEnsure(t *testing.T) {
	ctx := WithID(context.Background(), "existing")
	assert.Equal(t, ctx, Ensure(ctx), "context with an ID passes through")

	fresh := Ensure(context.Background())
	id, ok := ID(fresh)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestHandlerInjectsID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithID(context.Background(), "deadbeef")
	logger.InfoContext(ctx, "hello")
	assert.Contains(t, buf.String(), "correlation_id=deadbeef")

	buf.Reset()
	logger.InfoContext(context.Background(), "hello")
	assert.NotContains(t, buf.String(), "correlation_id")
}

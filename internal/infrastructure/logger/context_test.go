package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextReturnsNopWhenMissing(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
}

func TestWithContextRoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithContext(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
}

func TestWithRequestIDEnrichesLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")
	enriched.Info("hello")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	}
}

func TestWithActorEnrichesLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithActor(context.Background(), base, "ana")
	enriched.Info("hello")

	assert.Equal(t, "ana", GetActor(ctx))
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "ana", entries[0].ContextMap()["actor"])
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

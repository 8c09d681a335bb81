package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_NoDSNIsNoop(t *testing.T) {
	shutdown, err := Init(Config{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()
}

func TestStartSpan_WithoutSentry(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "IngestionService.Ingest", SpanAttributes{
		DocumentID:  7,
		Filename:    "a.txt",
		ContentType: "text/plain",
		Operation:   "ingest",
	})
	require.NotNil(t, ctx)

	assert.NotPanics(t, func() {
		span.SetData("chunks", 3)
		span.SetError(errors.New("boom"))
		span.End()
	})
}

func TestCaptureHelpers_WithoutSentry(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		CaptureError(ctx, errors.New("boom"))
		CaptureMessage(ctx, "dangling chunks found")
		AddBreadcrumb(ctx, "ingest", "extracted text")
	})
}

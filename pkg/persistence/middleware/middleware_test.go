package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/lienzo/pkg/adapters/memory"
	"github.com/aretw0/lienzo/pkg/persistence/middleware"
	"github.com/aretw0/lienzo/pkg/ports"
)

func TestChain_Contract(t *testing.T) {
	pii, err := middleware.NewPIIMiddleware([]string{"email"})
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.Chain(memory.NewStore(), middleware.NewLoggingMiddleware(logger), pii)

	ports.RunStoreContract(t, store)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.NewLoggingMiddleware(logger)(memory.NewStore())
	ctx := context.Background()

	_, _ = store.GetCurrentDraft(ctx, "agua")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "op=get_current_draft")
	assert.Contains(t, buf.String(), "document_id=agua")

	buf.Reset()
	_ = store.PutDraft(ctx, &ports.Draft{ID: "d1", DocumentID: "agua"})
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "revision=1")
}

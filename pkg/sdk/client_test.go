package fukui

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNoopEmbedder(t *testing.T) {
	noop := &noopEmbedder{}
	_, err := noop.Embed(context.Background(), "test")
	if err == nil {
		t.Fatal("expected error from noopEmbedder")
	}
}

func TestNoopCompleter(t *testing.T) {
	noop := &noopCompleter{}
	_, err := noop.Complete(context.Background(), "context", "question")
	if err == nil {
		t.Fatal("expected error from noopCompleter")
	}
}

type mockPublicEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockPublicEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

func TestEmbedderAdapter(t *testing.T) {
	called := false
	mock := &mockPublicEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			called = true
			return EmbeddingResult{
				Embedding:    []float32{1, 2, 3},
				PromptTokens: 5,
				TotalTokens:  10,
			}, nil
		},
	}

	adapter := &embedderAdapter{inner: mock}
	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner embedder was not called")
	}
	if len(result.Embedding) != 3 {
		t.Errorf("embedding len = %d, want 3", len(result.Embedding))
	}
	if result.TotalTokens != 10 {
		t.Errorf("TotalTokens = %d, want 10", result.TotalTokens)
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	mock := &mockPublicEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			return EmbeddingResult{}, errors.New("provider down")
		},
	}

	adapter := &embedderAdapter{inner: mock}
	if _, err := adapter.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}

type mockPublicCompleter struct {
	fn func(ctx context.Context, promptContext, question string) (string, error)
}

func (m *mockPublicCompleter) Complete(ctx context.Context, promptContext, question string) (string, error) {
	return m.fn(ctx, promptContext, question)
}

func TestCompleterAdapter(t *testing.T) {
	mock := &mockPublicCompleter{
		fn: func(_ context.Context, promptContext, question string) (string, error) {
			if promptContext != "ctx" || question != "q" {
				t.Errorf("args = %q, %q", promptContext, question)
			}
			return "answer text", nil
		},
	}

	adapter := &completerAdapter{inner: mock}
	text, err := adapter.Complete(context.Background(), "ctx", "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "answer text" {
		t.Errorf("text = %q", text)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	// Must not panic when the client carries no observer.
	obs.observe("ask", time.Now(), nil)
}

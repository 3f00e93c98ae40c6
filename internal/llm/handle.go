package llm

import (
	"context"
	"sync"

	"github.com/lticona/strive/internal/domain"
)

// Handle is the single loaded model session, handed out by Manager. It stays
// valid until the manager unloads it; generating against a closed handle
// fails with InferenceError instead of touching freed resources.
//
// The underlying runtime supports one generation at a time; the orchestrator
// serializes turns, so Handle does not queue generations itself.
type Handle struct {
	desc    domain.ModelDescriptor
	session EngineSession

	mu     sync.Mutex
	closed bool
}

func (h *Handle) Descriptor() domain.ModelDescriptor {
	return h.desc
}

// Generate starts one generation run against the session.
func (h *Handle) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Stream, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, &domain.InferenceError{Reason: "no model session is ready"}
	}
	sess := h.session
	h.mu.Unlock()

	stream, err := sess.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, &domain.InferenceError{Reason: "generation failed", Err: err}
	}
	return stream, nil
}

func (h *Handle) close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	sess := h.session
	h.mu.Unlock()
	return sess.Close()
}

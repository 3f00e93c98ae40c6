// Package llm owns the loaded inference session: engine abstraction,
// model discovery and lifecycle, and prompt construction.
package llm

import (
	"context"
	"io"
	"sync"

	"github.com/lticona/strive/internal/domain"
)

// EngineParams configures a session at load time.
type EngineParams struct {
	ContextSize int
	Threads     int
}

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	MaxTokens     int
	Temperature   float32
	StopSequences []string
}

// Engine abstracts the underlying inference implementation. The production
// engine wraps a native runtime; RuleEngine is the deterministic stand-in
// used in dev mode and tests.
type Engine interface {
	Name() string
	Load(ctx context.Context, desc domain.ModelDescriptor, params EngineParams) (EngineSession, error)
}

// EngineSession is a loaded, ready-to-generate model instance. At most one
// session exists per process; Manager enforces that.
type EngineSession interface {
	// Generate starts one generation run. The returned stream is finite and
	// cannot be replayed; cancelling ctx ends it early without invalidating
	// fragments already received.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Stream, error)
	Close() error
}

// Stream delivers generated text fragments lazily.
type Stream struct {
	ch         chan string
	done       chan struct{}
	cancelOnce sync.Once
	err        error
}

// NewStream returns a stream and the producer ends used by engine
// implementations: push delivers a fragment (false means the consumer is
// gone), finish seals the stream with an optional terminal error.
func NewStream() (s *Stream, push func(string) bool, finish func(error)) {
	s = &Stream{
		ch:   make(chan string, 8),
		done: make(chan struct{}),
	}
	push = func(f string) bool {
		select {
		case s.ch <- f:
			return true
		case <-s.done:
			return false
		}
	}
	finish = func(err error) {
		s.err = err
		close(s.ch)
	}
	return s, push, finish
}

// Recv returns the next fragment. It returns io.EOF after the final
// fragment, or the terminal error the producer finished with.
func (s *Stream) Recv() (string, error) {
	f, ok := <-s.ch
	if !ok {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	return f, nil
}

// Cancel tells the producer to stop early. Fragments already buffered are
// still delivered by Recv before it reports the end of the stream.
func (s *Stream) Cancel() {
	s.cancelOnce.Do(func() { close(s.done) })
}

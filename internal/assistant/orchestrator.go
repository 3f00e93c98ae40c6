package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lticona/strive/internal/app/tracker"
	"github.com/lticona/strive/internal/domain"
	"github.com/lticona/strive/internal/llm"
	"github.com/lticona/strive/internal/observability"
)

// Options carries the generation settings the orchestrator runs with,
// sourced from the settings store.
type Options struct {
	Model    domain.ModelDescriptor
	Generate llm.GenerateOptions
	Timeout  time.Duration // per-generation; 0 means no timeout
}

// Orchestrator is the single coordination point for assistant turns: it
// owns prompt construction, drives generation, applies at most one action,
// and keeps the conversation log consistent.
//
// The engine supports one concurrent generation, so turns are serialized;
// a turn blocks only while generating, and cancelling its context stops the
// generation without unloading the model.
type Orchestrator struct {
	manager  *llm.Manager
	memory   *ConversationMemory
	executor *Executor
	tracker  *tracker.Service
	opts     Options

	turnMu sync.Mutex
	now    func() time.Time
}

func NewOrchestrator(
	manager *llm.Manager,
	memory *ConversationMemory,
	executor *Executor,
	svc *tracker.Service,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		manager:  manager,
		memory:   memory,
		executor: executor,
		tracker:  svc,
		opts:     opts,
		now:      time.Now,
	}
}

// HandleTurn runs one full conversational turn and returns the message that
// was recorded for it: the assistant's reply, or a system turn when the
// model could not be loaded or generation failed. A non-nil error is
// returned only for unusable input, before anything is recorded.
func (o *Orchestrator) HandleTurn(ctx context.Context, userText string) (*domain.ChatMessage, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, fmt.Errorf("user message must not be empty")
	}

	o.turnMu.Lock()
	defer o.turnMu.Unlock()

	log := observability.LoggerFromContext(ctx).With("conversation_id", o.memory.conversationID)

	userMsg := o.newMessage(domain.SenderUser, userText, domain.NoAction())
	o.memory.Append(ctx, userMsg)

	handle, err := o.manager.EnsureReady(ctx, o.opts.Model)
	if err != nil {
		log.Error("model not ready", "model", o.opts.Model.Name, "error", err)
		return o.systemTurn(ctx, "I couldn't load the model: "+err.Error()), nil
	}

	history, summary := o.memory.SnapshotForPrompt()
	dataContext, err := o.tracker.ContextSnapshot(ctx)
	if err != nil {
		// Prompt context is best-effort; the turn proceeds without it.
		log.Warn("failed to build data context", "error", err)
		dataContext = ""
	}
	prompt := llm.BuildPrompt(history, summary, dataContext, userText)

	genCtx := ctx
	cancel := context.CancelFunc(func() {})
	if o.opts.Timeout > 0 {
		genCtx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
	}
	defer cancel()

	stream, err := handle.Generate(genCtx, prompt, o.opts.Generate)
	if err != nil {
		log.Error("generation failed to start", "error", err)
		return o.systemTurn(ctx, "I couldn't generate a reply: "+err.Error()), nil
	}

	full, streamErr := o.collect(genCtx, stream)
	interrupted := genCtx.Err() != nil
	if streamErr != nil && !interrupted {
		// The engine died mid-stream with the turn still live; only
		// cancellation and timeout take the partial-reply path.
		log.Error("generation failed mid-stream", "error", streamErr)
		return o.systemTurn(ctx, "I couldn't generate a reply: "+streamErr.Error()), nil
	}
	if interrupted {
		log.Info("generation interrupted", "partial_len", len(full))
	}

	action, clean := ParseAction(full)
	if interrupted {
		// A cut-off reply must not mutate anything; whatever text arrived is
		// still recorded as the assistant's (partial) turn.
		action = domain.NoAction()
	}
	if clean == "" && full == "" && interrupted {
		clean = "(no reply - generation was interrupted)"
	}

	resolved := action
	if action.Type != domain.ActionNone {
		resolved = o.executor.Execute(ctx, action)
	}

	assistantMsg := o.newMessage(domain.SenderAssistant, clean, resolved)
	o.memory.Append(ctx, assistantMsg)

	log.Info("turn completed", "action", resolved.Type, "target", resolved.Target)
	return assistantMsg, nil
}

// collect drains the stream into a single reply, returning the terminal
// stream error if the producer finished with one. Fragments received before
// a cut or a failure remain part of the text; the caller decides what the
// ending means by looking at its context.
func (o *Orchestrator) collect(ctx context.Context, stream *llm.Stream) (string, error) {
	var b strings.Builder
	var streamErr error
	for {
		frag, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		b.WriteString(frag)
	}
	if ctx.Err() != nil {
		stream.Cancel()
	}
	return b.String(), streamErr
}

func (o *Orchestrator) systemTurn(ctx context.Context, text string) *domain.ChatMessage {
	msg := o.newMessage(domain.SenderSystem, text, domain.NoAction())
	o.memory.Append(ctx, msg)
	return msg
}

func (o *Orchestrator) newMessage(sender domain.Sender, text string, action domain.ActionTaken) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:             domain.MessageID(uuid.NewString()),
		ConversationID: o.memory.conversationID,
		Sender:         sender,
		Text:           text,
		CreatedAt:      o.now(),
		Action:         action,
	}
}

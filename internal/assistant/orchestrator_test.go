package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memstore "github.com/lticona/strive/internal/adapters/storage/memory"
	"github.com/lticona/strive/internal/app/tracker"
	"github.com/lticona/strive/internal/domain"
	"github.com/lticona/strive/internal/llm"
)

func writeModelFile(t *testing.T) domain.ModelDescriptor {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny-1b-q4_k_m.gguf")
	require.NoError(t, os.WriteFile(path, []byte("gguf"), 0o644))
	return domain.ModelDescriptor{Name: "tiny-1b-q4_k_m", Path: path}
}

func newTestOrchestrator(t *testing.T, engine llm.Engine, desc domain.ModelDescriptor) (*Orchestrator, *tracker.Service, *ConversationMemory) {
	t.Helper()

	svc := tracker.NewService(memstore.NewGoalStore(), memstore.NewTaskStore(), memstore.NewFocusStore())
	manager := llm.NewManager(engine, t.TempDir(), llm.EngineParams{})
	mem := NewConversationMemory("conv", 20, nil, nil)

	orch := NewOrchestrator(manager, mem, NewExecutor(svc), svc, Options{
		Model:    desc,
		Generate: llm.GenerateOptions{MaxTokens: 256},
	})
	return orch, svc, mem
}

func TestHandleTurnCreatesTask(t *testing.T) {
	desc := writeModelFile(t)
	orch, svc, mem := newTestOrchestrator(t, llm.NewRuleEngine(), desc)
	ctx := context.Background()

	msg, err := orch.HandleTurn(ctx, `add a task "Buy milk"`)
	require.NoError(t, err)

	assert.Equal(t, domain.SenderAssistant, msg.Sender)
	assert.Equal(t, domain.ActionTaskCreated, msg.Action.Type)
	assert.Equal(t, "Buy milk", msg.Action.Target)
	assert.NotContains(t, msg.Text, "[ACTION")

	_, tasks, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)

	msgs, _ := mem.SnapshotForPrompt()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.SenderUser, msgs[0].Sender)
	assert.Equal(t, domain.SenderAssistant, msgs[1].Sender)
}

func TestHandleTurnConversationalOnly(t *testing.T) {
	desc := writeModelFile(t)
	orch, svc, _ := newTestOrchestrator(t, llm.NewRuleEngine(), desc)
	ctx := context.Background()

	msg, err := orch.HandleTurn(ctx, "hello there")
	require.NoError(t, err)

	assert.Equal(t, domain.SenderAssistant, msg.Sender)
	assert.Equal(t, domain.ActionNone, msg.Action.Type)

	goals, tasks, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
	assert.Empty(t, tasks)
}

func TestHandleTurnExecutionFailureDowngrades(t *testing.T) {
	desc := writeModelFile(t)
	orch, _, _ := newTestOrchestrator(t, llm.NewRuleEngine(), desc)

	msg, err := orch.HandleTurn(context.Background(), `I finished "Ship the release"`)
	require.NoError(t, err)

	// The rule engine emits TASK_COMPLETED, but no such task exists.
	assert.Equal(t, domain.SenderAssistant, msg.Sender)
	assert.Equal(t, domain.ActionNone, msg.Action.Type)
	assert.Contains(t, msg.Action.Details, "task not found")
}

func TestHandleTurnModelLoadFailureIsSystemTurn(t *testing.T) {
	missing := domain.ModelDescriptor{Name: "ghost", Path: filepath.Join(t.TempDir(), "ghost.gguf")}
	orch, _, mem := newTestOrchestrator(t, llm.NewRuleEngine(), missing)

	msg, err := orch.HandleTurn(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, domain.SenderSystem, msg.Sender)
	assert.Contains(t, msg.Text, "couldn't load the model")

	// Memory ordering stays intact: the user turn, then the system turn.
	msgs, _ := mem.SnapshotForPrompt()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.SenderUser, msgs[0].Sender)
	assert.Equal(t, domain.SenderSystem, msgs[1].Sender)
}

func TestHandleTurnEmptyInputRejected(t *testing.T) {
	desc := writeModelFile(t)
	orch, _, mem := newTestOrchestrator(t, llm.NewRuleEngine(), desc)

	_, err := orch.HandleTurn(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, 0, mem.Len())
}

// blockingEngine emits one fragment, then holds the stream open until the
// generation context is cancelled.
type blockingEngine struct {
	emitted chan struct{}
}

func (e *blockingEngine) Name() string { return "blocking" }

func (e *blockingEngine) Load(ctx context.Context, desc domain.ModelDescriptor, params llm.EngineParams) (llm.EngineSession, error) {
	return &blockingSession{emitted: e.emitted}, nil
}

type blockingSession struct {
	emitted chan struct{}
}

func (s *blockingSession) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (*llm.Stream, error) {
	stream, push, finish := llm.NewStream()
	go func() {
		defer finish(nil)
		push("Sure, let me")
		close(s.emitted)
		<-ctx.Done()
	}()
	return stream, nil
}

func (s *blockingSession) Close() error { return nil }

// crashingEngine emits one fragment and then fails the stream, the way a
// native runtime dies mid-generation.
type crashingEngine struct{}

func (e *crashingEngine) Name() string { return "crashing" }

func (e *crashingEngine) Load(ctx context.Context, desc domain.ModelDescriptor, params llm.EngineParams) (llm.EngineSession, error) {
	return &crashingSession{}, nil
}

type crashingSession struct{}

func (s *crashingSession) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (*llm.Stream, error) {
	stream, push, finish := llm.NewStream()
	go func() {
		push("half a reply")
		finish(errors.New("kv cache corruption"))
	}()
	return stream, nil
}

func (s *crashingSession) Close() error { return nil }

func TestHandleTurnMidStreamFailureIsSystemTurn(t *testing.T) {
	desc := writeModelFile(t)
	orch, _, mem := newTestOrchestrator(t, &crashingEngine{}, desc)

	msg, err := orch.HandleTurn(context.Background(), "hello")
	require.NoError(t, err)

	// An engine failure with the turn still live is an error turn, not a
	// partial assistant reply.
	assert.Equal(t, domain.SenderSystem, msg.Sender)
	assert.Contains(t, msg.Text, "couldn't generate a reply")
	assert.Contains(t, msg.Text, "kv cache corruption")
	assert.Equal(t, domain.ActionNone, msg.Action.Type)

	msgs, _ := mem.SnapshotForPrompt()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.SenderUser, msgs[0].Sender)
	assert.Equal(t, domain.SenderSystem, msgs[1].Sender)
}

func TestHandleTurnCancellationRecordsPartialText(t *testing.T) {
	desc := writeModelFile(t)
	engine := &blockingEngine{emitted: make(chan struct{})}
	orch, _, mem := newTestOrchestrator(t, engine, desc)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-engine.emitted
		cancel()
	}()

	msg, err := orch.HandleTurn(ctx, `create a goal "Learn Spanish"`)
	require.NoError(t, err)

	assert.Equal(t, domain.SenderAssistant, msg.Sender)
	assert.Equal(t, "Sure, let me", msg.Text)
	// A cut-off turn never mutates data.
	assert.Equal(t, domain.ActionNone, msg.Action.Type)

	// No half-appended state: exactly the user turn and the partial reply.
	msgs, _ := mem.SnapshotForPrompt()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Sure, let me", msgs[1].Text)
}

func TestHandleTurnTimeoutBehavesLikeCancellation(t *testing.T) {
	desc := writeModelFile(t)
	engine := &blockingEngine{emitted: make(chan struct{})}

	svc := tracker.NewService(memstore.NewGoalStore(), memstore.NewTaskStore(), memstore.NewFocusStore())
	manager := llm.NewManager(engine, t.TempDir(), llm.EngineParams{})
	mem := NewConversationMemory("conv", 20, nil, nil)
	orch := NewOrchestrator(manager, mem, NewExecutor(svc), svc, Options{
		Model:   desc,
		Timeout: 50 * time.Millisecond,
	})

	msg, err := orch.HandleTurn(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, domain.SenderAssistant, msg.Sender)
	assert.Equal(t, domain.ActionNone, msg.Action.Type)
	assert.Equal(t, "Sure, let me", msg.Text)

	// The model stays loaded; cancellation never unloads it.
	assert.Equal(t, llm.StateReady, orch.manager.State())
}

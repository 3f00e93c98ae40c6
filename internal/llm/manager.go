package llm

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lticona/strive/internal/domain"
)

// State is the lifecycle state of the managed model session.
type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateUnloading
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateUnloading:
		return "unloading"
	default:
		return "unloaded"
	}
}

// Manager owns the model session lifecycle: discovery of model files,
// load/unload, and the single-active-session invariant. Concurrent
// EnsureReady calls for the same descriptor share one in-flight load;
// requests for a different descriptor queue behind it, since only one
// native session may exist at a time.
type Manager struct {
	engine    Engine
	modelsDir string
	params    EngineParams

	flight singleflight.Group
	loadMu sync.Mutex // serializes load/unload; no two loads ever run concurrently

	mu     sync.Mutex // guards state and handle
	state  State
	handle *Handle
}

func NewManager(engine Engine, modelsDir string, params EngineParams) *Manager {
	return &Manager{
		engine:    engine,
		modelsDir: modelsDir,
		params:    params,
	}
}

var (
	quantRe  = regexp.MustCompile(`(?i)\bi?q\d[a-z0-9_]*`)
	paramsRe = regexp.MustCompile(`(?i)\d+(\.\d+)?b\b`)
)

// ListAvailable scans the models directory for .gguf files. A missing or
// unreadable directory is just "no models installed", never an error.
func (m *Manager) ListAvailable() []domain.ModelDescriptor {
	entries, err := os.ReadDir(m.modelsDir)
	if err != nil {
		return nil
	}

	var out []domain.ModelDescriptor
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".gguf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		tagged := strings.ReplaceAll(name, "-", " ")
		out = append(out, domain.ModelDescriptor{
			Name:      name,
			Path:      filepath.Join(m.modelsDir, e.Name()),
			Quant:     strings.ToLower(quantRe.FindString(tagged)),
			Params:    strings.ToLower(paramsRe.FindString(tagged)),
			SizeBytes: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EnsureReady returns a handle for the requested model, loading it if
// needed. When the descriptor is already loaded this is a no-op returning
// the existing handle.
func (m *Manager) EnsureReady(ctx context.Context, desc domain.ModelDescriptor) (*Handle, error) {
	if h, ok := m.readyHandle(desc); ok {
		return h, nil
	}

	// The load is shared across every waiter on this flight, so it must not
	// die with whichever caller happened to start it.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := m.flight.Do(desc.Path, func() (any, error) {
		return m.load(loadCtx, desc)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

func (m *Manager) readyHandle(desc domain.ModelDescriptor) (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateReady && m.handle != nil && m.handle.desc.Path == desc.Path {
		return m.handle, true
	}
	return nil, false
}

func (m *Manager) load(ctx context.Context, desc domain.ModelDescriptor) (*Handle, error) {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	// A request queued behind another load may find its model ready by the
	// time it gets here.
	if h, ok := m.readyHandle(desc); ok {
		return h, nil
	}

	// Tear down a session for a different model before loading.
	m.unloadLocked()

	m.setState(StateLoading)
	sess, err := m.engine.Load(ctx, desc, m.params)
	if err != nil {
		m.setState(StateUnloaded)
		return nil, &domain.ModelLoadError{Path: desc.Path, Err: err}
	}

	h := &Handle{desc: desc, session: sess}
	m.mu.Lock()
	m.state = StateReady
	m.handle = h
	m.mu.Unlock()
	return h, nil
}

// Unload releases the current session. Idempotent; safe with no session
// loaded. It does not interrupt an in-flight load.
func (m *Manager) Unload() {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	m.unloadLocked()
}

func (m *Manager) unloadLocked() {
	m.mu.Lock()
	if m.state != StateReady || m.handle == nil {
		m.mu.Unlock()
		return
	}
	h := m.handle
	m.state = StateUnloading
	m.mu.Unlock()

	_ = h.close()

	m.mu.Lock()
	m.handle = nil
	m.state = StateUnloaded
	m.mu.Unlock()
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the ready handle, if any.
func (m *Manager) Current() (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReady || m.handle == nil {
		return nil, false
	}
	return m.handle, true
}

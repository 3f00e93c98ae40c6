package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lticona/strive/internal/adapters/storage/memory"
	"github.com/lticona/strive/internal/adapters/storage/sqlite"
	"github.com/lticona/strive/internal/app/tracker"
	"github.com/lticona/strive/internal/config"
	"github.com/lticona/strive/internal/domain"
	"github.com/lticona/strive/internal/llm"
	"github.com/lticona/strive/internal/observability"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "strive",
	Short:         "Personal goals, tasks and focus time with an on-device assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.strive/config.yaml)")
	rootCmd.AddCommand(chatCmd, modelsCmd, goalsCmd, tasksCmd, focusCmd, statsCmd)
}

// app bundles everything a command needs, wired from config.
type app struct {
	cfg       *config.Config
	tracker   *tracker.Service
	manager   *llm.Manager
	chatStore domain.ChatStore
	close     func()
}

func buildApp() (*app, error) {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	observability.SetLevel(cfg.Logging.Level)
	log := observability.Logger()

	var (
		goals     domain.GoalStore
		tasks     domain.TaskStore
		focus     domain.FocusStore
		chatStore domain.ChatStore
		closeFn   = func() {}
	)

	switch cfg.Storage.Backend {
	case "memory":
		log.Info("using in-memory storage")
		goals = memory.NewGoalStore()
		tasks = memory.NewTaskStore()
		focus = memory.NewFocusStore()
		chatStore = memory.NewChatStore()

	case "sqlite", "":
		log.Info("using sqlite storage", "path", cfg.Storage.Path)
		if err := ensureParentDir(cfg.Storage.Path); err != nil {
			return nil, err
		}
		store, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		// One store implements every port.
		goals, tasks, focus, chatStore = store, store, store, store
		closeFn = func() { _ = store.Close() }

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	var engine llm.Engine
	switch cfg.Engine {
	case "rule", "":
		engine = llm.NewRuleEngine()
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}

	manager := llm.NewManager(engine, cfg.ModelsDir, llm.EngineParams{
		ContextSize: cfg.Generation.ContextSize,
		Threads:     cfg.Generation.Threads,
	})

	return &app{
		cfg:       cfg,
		tracker:   tracker.NewService(goals, tasks, focus),
		manager:   manager,
		chatStore: chatStore,
		close:     closeFn,
	}, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

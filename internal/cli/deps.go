// Package cli provides the Cobra command tree for claudekit-hooks. This
// file is the composition root that wires the closed hook registry
// together.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/claudekit-dev/claudekit/internal/hook"
	"github.com/claudekit-dev/claudekit/internal/hook/validate"
	"github.com/claudekit-dev/claudekit/internal/hook/workflow"
)

// Dependencies holds the services CLI commands use. This is the only
// place concrete handler constructors are assembled.
type Dependencies struct {
	Registry *hook.Registry
	Logger   *slog.Logger
}

var deps *Dependencies

// builtinHooks is the closed set of hook IDs this binary knows about.
// Adding a hook means adding one entry here.
func builtinHooks() []hook.BuiltinConstructor {
	return []hook.BuiltinConstructor{
		{ID: "typecheck-changed", Factory: validate.NewTypecheckChanged},
		{ID: "lint-changed", Factory: validate.NewLintChanged},
		{ID: "check-any-changed", Factory: validate.NewCheckAnyChanged},
		{ID: "test-changed", Factory: validate.NewTestChanged},
		{ID: "typecheck-project", Factory: validate.NewTypecheckProject},
		{ID: "lint-project", Factory: validate.NewLintProject},
		{ID: "test-project", Factory: validate.NewTestProject},
		{ID: "create-checkpoint", Factory: workflow.NewCreateCheckpoint},
		{ID: "check-todos", Factory: workflow.NewCheckTodos},
	}
}

// InitDependencies wires the registry and logger. Called by Execute, and
// by subcommands that find deps unset.
func InitDependencies() *Dependencies {
	hook.RegisterAll(builtinHooks())

	level := slog.LevelWarn
	if os.Getenv("CLAUDEKIT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	if os.Getenv("CLAUDEKIT_DEBUG") == "" {
		// Human stderr blocks (internal/diagnostics) are the primary
		// channel; slog stays quiet unless debugging is requested.
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	deps = &Dependencies{
		Registry: hook.NewRegistry(),
		Logger:   logger,
	}
	return deps
}

// GetDeps returns the current Dependencies instance, or nil before
// InitDependencies has run.
func GetDeps() *Dependencies { return deps }

// SetDeps replaces the global dependencies (used by tests).
func SetDeps(d *Dependencies) { deps = d }

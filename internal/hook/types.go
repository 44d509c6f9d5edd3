// Package hook defines the contract every handler implements and
// dispatches events to the closed registry of handlers in
// internal/hook/validate and internal/hook/workflow.
package hook

import (
	"context"
	"io"
	"time"

	"github.com/claudekit-dev/claudekit/internal/config"
	"github.com/claudekit-dev/claudekit/internal/diagnostics"
	"github.com/claudekit-dev/claudekit/internal/hookio"
	"github.com/claudekit-dev/claudekit/internal/toolchain"
)

// DefaultHookTimeout is used when a hook descriptor does not specify one
// and no config override is present.
const DefaultHookTimeout = 30 * time.Second

// Category classifies a hook for listing/introspection purposes.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryGit        Category = "git"
	CategoryTesting    Category = "testing"
	CategoryUtility    Category = "utility"
	CategoryWorkflow   Category = "workflow"
)

// Descriptor is the compile-time metadata for one hook ID.
type Descriptor struct {
	ID             string
	DisplayName    string
	Description    string
	Category       Category
	TriggerEvent   hookio.EventType
	Dependencies   []string
	DefaultTimeout time.Duration
	DefaultCommand string
}

// Context is everything a handler needs to execute, assembled once per
// invocation by the dispatcher in a fixed order: decode, locate, probe,
// load config, resolve settings, then construct.
type Context struct {
	Ctx      context.Context
	Payload  *hookio.Payload
	Root     string
	Tools    *toolchain.ToolSet
	Config   *config.Config
	Settings config.HookSettings
	Stderr   io.Writer // progress lines and formatted error blocks
}

// progress writes a hook-id-tagged progress line, or does nothing if no
// stderr writer was wired (e.g. in unit tests that only check Result).
func (hc *Context) progress(hookID, message string) {
	if hc.Stderr == nil {
		return
	}
	diagnostics.Progress(hc.Stderr, hookID, message)
}

// block renders and writes a formatted error block to stderr, if wired.
func (hc *Context) block(b diagnostics.Block) {
	if hc.Stderr == nil {
		return
	}
	diagnostics.WriteBlock(hc.Stderr, b)
}

// Result is the in-process return of every handler. ExitCode is always
// 0 or 2. Decision "block" is the preferred
// path for Stop-class events (stdout JSON); ExitCode 2 is the path for
// changed-file/project-wide validators, whose formatted error block has
// already been written to hc.Stderr by the time Execute returns.
type Result struct {
	ExitCode       int
	Decision       string // "" or "block"
	Reason         string
	SuppressOutput bool
}

// Allow is the canonical "everything is fine" result.
func Allow() Result { return Result{ExitCode: 0} }

// Block returns a PostToolUse/Stop-style JSON block decision (exit 0,
// decision:"block" on stdout).
func Block(reason string) Result {
	return Result{ExitCode: 0, Decision: "block", Reason: reason}
}

// Fail returns the changed-file/project-wide validator failure path:
// exit 2, with the formatted error block already written to stderr by
// the caller.
func Fail() Result { return Result{ExitCode: 2} }

// Handler processes one hook's execution for a single invocation.
type Handler interface {
	Descriptor() Descriptor
	Execute(hc *Context) (Result, error)
}

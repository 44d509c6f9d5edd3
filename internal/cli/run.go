package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claudekit-dev/claudekit/internal/config"
	"github.com/claudekit-dev/claudekit/internal/diagnostics"
	"github.com/claudekit-dev/claudekit/internal/hook"
	"github.com/claudekit-dev/claudekit/internal/hookio"
	"github.com/claudekit-dev/claudekit/internal/project"
	"github.com/claudekit-dev/claudekit/internal/session"
	"github.com/claudekit-dev/claudekit/internal/toolchain"
)

// Exit codes for `run`.
const (
	exitAllow       = 0
	exitBlock       = 2
	exitInternal    = 1
	exitUnknownHook = 64
)

var (
	runConfigPath string
	runTimeoutMS  int
)

var runCmd = &cobra.Command{
	Use:   "run <hook-id>",
	Short: "Run a hook against the event payload on stdin",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "override config file path")
	runCmd.Flags().IntVar(&runTimeoutMS, "timeout", 0, "override hook timeout in milliseconds")
	rootCmd.AddCommand(runCmd)
}

func isTruthyEnv(v string) bool {
	switch v {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	hookID := args[0]

	if isTruthyEnv(os.Getenv("CLAUDEKIT_SKIP_HOOKS")) {
		os.Exit(exitAllow)
		return nil
	}

	if deps == nil || deps.Registry == nil {
		InitDependencies()
	}

	handler, err := deps.Registry.Lookup(hookID)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderCard("Unknown hook", listHookIDs()))
		os.Exit(exitUnknownHook)
		return nil
	}

	payload, err := hookio.DecodeStdin()
	if err != nil {
		payload = &hookio.Payload{Empty: true}
	}

	startPath := payload.FilePath
	if startPath == "" {
		startPath = payload.CWD
	}
	root, err := project.Locate(startPath)
	if err != nil {
		diagnostics.Progress(os.Stderr, hookID, "could not resolve project root — skipping")
		os.Exit(exitAllow)
		return nil
	}

	tools, err := toolchain.Probe(root)
	if err != nil {
		tools = &toolchain.ToolSet{}
	}

	cfg, warnings, _ := config.LoadWithOverride(root, runConfigPath)
	for _, w := range warnings {
		diagnostics.Progress(os.Stderr, hookID, "config warning: "+w)
	}

	descriptor := handler.Descriptor()
	defaultTimeout := descriptor.DefaultTimeout
	if defaultTimeout <= 0 {
		defaultTimeout = hook.DefaultHookTimeout
	}
	settings := cfg.Setting(hookID, int(defaultTimeout.Milliseconds()))
	if runTimeoutMS > 0 {
		settings.TimeoutMS = runTimeoutMS
	}

	if !settings.IsEnabled() {
		os.Exit(exitAllow)
		return nil
	}

	timeout := time.Duration(settings.TimeoutMS) * time.Millisecond
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	hc := &hook.Context{
		Ctx:      ctx,
		Payload:  payload,
		Root:     root,
		Tools:    tools,
		Config:   cfg,
		Settings: settings,
		Stderr:   os.Stderr,
	}

	start := time.Now()
	result, execErr := safeExecute(handler, hc)
	duration := time.Since(start)

	store := session.Open(payload.SessionID)
	store.Append(session.Event{
		Timestamp:  start,
		HookID:     hookID,
		Event:      string(payload.EventType),
		Root:       root,
		DurationMS: duration.Milliseconds(),
		ExitCode:   result.ExitCode,
		Decision:   result.Decision,
	})

	if execErr != nil {
		diagnostics.WriteBlock(os.Stderr, diagnostics.Block{
			Title:   "Hook crashed",
			Body:    execErr.Error(),
			FixList: []string{"Re-run with CLAUDEKIT_DEBUG=1 for more detail.", "Report this as a bug if it persists."},
		})
		os.Exit(exitBlock)
		return nil
	}

	if err := diagnostics.WriteDecision(os.Stdout, diagnostics.Decision{
		Block:    result.Decision == "block",
		Reason:   result.Reason,
		Suppress: result.SuppressOutput,
	}); err != nil {
		os.Exit(exitInternal)
		return nil
	}

	os.Exit(result.ExitCode)
	return nil
}

// safeExecute converts a handler panic into the HookCrashed propagation
// path: handlers return Results, not exceptions, and a crashing hook
// never silently passes.
func safeExecute(h hook.Handler, hc *hook.Context) (res hook.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = hook.Fail()
			err = fmt.Errorf("panic in hook %s: %v", h.Descriptor().ID, r)
		}
	}()
	return h.Execute(hc)
}

func listHookIDs() string {
	if deps == nil || deps.Registry == nil {
		return "(hook registry not initialized)"
	}
	ids := deps.Registry.IDs()
	out := "Known hook IDs:\n"
	for _, id := range ids {
		out += "  " + id + "\n"
	}
	return out
}

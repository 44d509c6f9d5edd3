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
	"github.com/claudekit-dev/claudekit/internal/toolchain"
)

var testFilePath string

var testCmd = &cobra.Command{
	Use:   "test <hook-id>",
	Short: "Run a hook against a synthesized payload for local debugging",
	Args:  cobra.ExactArgs(1),
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVar(&testFilePath, "file", "", "file path to synthesize into the payload")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	hookID := args[0]
	if deps == nil || deps.Registry == nil {
		InitDependencies()
	}

	handler, err := deps.Registry.Lookup(hookID)
	if err != nil {
		return fmt.Errorf("unknown hook %q — run `claudekit-hooks list` to see available IDs", hookID)
	}

	descriptor := handler.Descriptor()
	payload := synthesizePayload(descriptor, testFilePath)

	startPath := payload.FilePath
	if startPath == "" {
		startPath, _ = os.Getwd()
	}
	root, err := project.Locate(startPath)
	if err != nil {
		return fmt.Errorf("locate project root: %w", err)
	}

	tools, err := toolchain.Probe(root)
	if err != nil {
		tools = &toolchain.ToolSet{}
	}

	cfg, _, _ := config.Load(root)
	defaultTimeout := descriptor.DefaultTimeout
	if defaultTimeout <= 0 {
		defaultTimeout = hook.DefaultHookTimeout
	}
	settings := cfg.Setting(hookID, int(defaultTimeout.Milliseconds()))

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(settings.TimeoutMS)*time.Millisecond)
	defer cancel()

	hc := &hook.Context{
		Ctx:      ctx,
		Payload:  payload,
		Root:     root,
		Tools:    tools,
		Config:   cfg,
		Settings: settings,
		Stderr:   cmd.ErrOrStderr(),
	}

	result, execErr := safeExecute(handler, hc)
	if execErr != nil {
		return execErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderCard(fmt.Sprintf("test: %s", hookID), renderKeyValueLines([]kvPair{
		{"exitCode", fmt.Sprintf("%d", result.ExitCode)},
		{"decision", result.Decision},
		{"reason", result.Reason},
		{"root", root},
	})))
	return diagnostics.WriteDecision(out, diagnostics.Decision{
		Block:    result.Decision == "block",
		Reason:   result.Reason,
		Suppress: result.SuppressOutput,
	})
}

// synthesizePayload builds a plausible event payload for the hook's
// trigger event, standing in for the host so a hook can be run locally
// for debugging without a real invocation.
func synthesizePayload(d hook.Descriptor, filePath string) *hookio.Payload {
	p := &hookio.Payload{
		EventType: d.TriggerEvent,
		SessionID: "test-session",
	}
	if filePath != "" {
		p.FilePath = filePath
		p.ToolName = "Edit"
	}
	return p
}

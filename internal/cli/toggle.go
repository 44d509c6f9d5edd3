package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/claudekit-dev/claudekit/internal/config"
	"github.com/claudekit-dev/claudekit/internal/project"
)

var disableCmd = &cobra.Command{
	Use:   "disable <hook-id>",
	Short: "Disable a hook in the project config",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setEnabled(cmd, args[0], false) },
}

var enableCmd = &cobra.Command{
	Use:   "enable <hook-id>",
	Short: "Enable a hook in the project config",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setEnabled(cmd, args[0], true) },
}

func init() {
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(enableCmd)
}

// setEnabled flips hooks.<hookID>.enabled in the project config file,
// round-tripping through a raw map so fields this engine doesn't model
// are preserved untouched.
func setEnabled(cmd *cobra.Command, hookID string, enabled bool) error {
	if deps == nil || deps.Registry == nil {
		InitDependencies()
	}
	if _, err := deps.Registry.Lookup(hookID); err != nil {
		return fmt.Errorf("unknown hook %q — run `claudekit-hooks list` to see available IDs", hookID)
	}

	root, err := project.Locate("")
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	path := config.ProjectConfigPath(root)

	raw := map[string]any{}
	if data, readErr := os.ReadFile(path); readErr == nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse existing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(readErr) {
		return fmt.Errorf("read config %s: %w", path, readErr)
	}

	hooks, ok := raw["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
	}
	entry, ok := hooks[hookID].(map[string]any)
	if !ok {
		entry = map[string]any{}
	}
	entry["enabled"] = enabled
	hooks[hookID] = entry
	raw["hooks"] = hooks

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", hookID, verb)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudekit-dev/claudekit/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "claudekit-hooks",
	Short: "claudekit-hooks: the Claudekit embedded hooks engine",
	Long: `claudekit-hooks is invoked once per host lifecycle/tool-use event.
It decodes the event, locates the project, probes its tooling, loads
layered configuration, dispatches to a closed registry of validators and
workflow hooks, and returns an allow/block decision.`,
	Version: version.GetVersion(),
}

// Execute initializes dependencies and runs the root command. This is
// the single entry point cmd/claudekit-hooks/main.go calls.
func Execute() error {
	InitDependencies()
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("claudekit-hooks %s\n", version.GetVersion()))
}

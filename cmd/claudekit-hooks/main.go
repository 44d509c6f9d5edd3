// claudekit-hooks is the engine's sole entry point: the host spawns it
// fresh for every lifecycle/tool-use event.
package main

import (
	"os"

	"github.com/claudekit-dev/claudekit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

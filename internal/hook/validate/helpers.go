// Package validate implements the changed-file and project-wide
// validator hooks: typecheck-changed, lint-changed, check-any-changed,
// test-changed, typecheck-project, lint-project, test-project.
package validate

import (
	"strings"
	"time"

	"github.com/claudekit-dev/claudekit/internal/hook"
	"github.com/claudekit-dev/claudekit/internal/procrun"
	"github.com/claudekit-dev/claudekit/internal/toolchain"
)

// timeoutFor resolves the effective timeout: config override, else the
// descriptor's default.
func timeoutFor(hc *hook.Context, def time.Duration) time.Duration {
	if hc.Settings.TimeoutMS > 0 {
		return time.Duration(hc.Settings.TimeoutMS) * time.Millisecond
	}
	return def
}

// runRecipe spawns recipe with trailing args under the hook's resolved
// timeout, against the project root, with the hook's configured
// extraArgs appended as discrete argv elements (never shell-joined).
func runRecipe(hc *hook.Context, recipe *toolchain.Recipe, timeout time.Duration, trailing ...string) (*procrun.Result, error) {
	args := append([]string{}, trailing...)
	args = append(args, hc.Settings.ExtraArgs...)
	bin, argv := recipe.Argv(args...)
	return procrunRun(hc, bin, argv, timeout)
}

// procrunRun is the shared entry point into the safe process runner for
// every validator, always an argv array against the project root.
func procrunRun(hc *hook.Context, bin string, args []string, timeout time.Duration) (*procrun.Result, error) {
	return procrun.Run(hc.Ctx, bin, args, procrun.Options{
		Dir:     hc.Root,
		Timeout: timeout,
	})
}

func isTSFile(path string) bool {
	return strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx")
}

func isJSOrTSFile(path string) bool {
	for _, ext := range []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// stopHookLoopGuard reports whether a project-wide validator should
// silently allow to avoid re-triggering itself via its own stop-hook
// activity.
func stopHookLoopGuard(hc *hook.Context) bool {
	return hc.Payload != nil && hc.Payload.StopHookActive
}

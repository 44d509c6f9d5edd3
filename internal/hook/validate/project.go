package validate

import (
	"strings"
	"time"

	"github.com/claudekit-dev/claudekit/internal/diagnostics"
	"github.com/claudekit-dev/claudekit/internal/hook"
	"github.com/claudekit-dev/claudekit/internal/project"
	"github.com/claudekit-dev/claudekit/internal/toolchain"
)

// --- typecheck-project -------------------------------------------------

type typecheckProject struct{}

// NewTypecheckProject returns the typecheck-project handler.
func NewTypecheckProject() hook.Handler { return typecheckProject{} }

func (typecheckProject) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "typecheck-project",
		DisplayName:    "Typecheck project",
		Description:    "Runs the project type checker in no-emit mode over the whole project.",
		Category:       hook.CategoryValidation,
		TriggerEvent:   "Stop",
		Dependencies:   []string{"typeChecker"},
		DefaultTimeout: 45 * time.Second,
	}
}

func (typecheckProject) Execute(hc *hook.Context) (hook.Result, error) {
	if stopHookLoopGuard(hc) || !hc.Settings.IsEnabled() {
		return hook.Allow(), nil
	}
	if !project.HasPackageJSON(hc.Root) {
		hc.progress("typecheck-project", "no package.json — skipping")
		return hook.Allow(), nil
	}
	if !hc.Tools.HasTypeChecker() {
		hc.progress("typecheck-project", "no TypeScript project detected — skipping")
		return hook.Allow(), nil
	}

	res, err := runRecipe(hc, hc.Tools.TypeChecker, timeoutFor(hc, 45*time.Second), "--noEmit")
	if err != nil {
		hc.progress("typecheck-project", "type checker could not be started — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if res.TimedOut {
		// Project-wide timeout policy is documented as block, not
		// soft-skip, unlike a spawn failure: a hung type checker means
		// the project genuinely cannot be verified right now, and
		// silently allowing would defeat the Stop-gate's purpose. See
		// DESIGN.md for the open-question resolution.
		hc.block(diagnostics.Block{
			Title:   "Type check timed out",
			Body:    "tsc --noEmit did not finish within the configured timeout.",
			FixList: []string{"Increase the typecheck-project timeout in .claudekit/config.json.", "Investigate why the type check is slow."},
		})
		return hook.Fail(), nil
	}
	if res.ExitCode != 0 {
		hc.block(diagnostics.Block{
			Title:   "Type errors",
			Body:    strings.TrimSpace(res.Stdout + "\n" + res.Stderr),
			FixList: []string{"Fix the reported type errors before finishing."},
		})
		return hook.Fail(), nil
	}
	return hook.Allow(), nil
}

// --- lint-project -------------------------------------------------------

type lintProject struct{}

// NewLintProject returns the lint-project handler.
func NewLintProject() hook.Handler { return lintProject{} }

func (lintProject) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "lint-project",
		DisplayName:    "Lint project",
		Description:    "Runs the linter over the project's configured input set.",
		Category:       hook.CategoryValidation,
		TriggerEvent:   "Stop",
		Dependencies:   []string{"linter"},
		DefaultTimeout: 30 * time.Second,
	}
}

func (lintProject) Execute(hc *hook.Context) (hook.Result, error) {
	if stopHookLoopGuard(hc) || !hc.Settings.IsEnabled() {
		return hook.Allow(), nil
	}
	if !project.HasPackageJSON(hc.Root) {
		hc.progress("lint-project", "no package.json — skipping")
		return hook.Allow(), nil
	}
	if !hc.Tools.HasLinter() {
		hc.progress("lint-project", "no ESLint config detected — skipping")
		return hook.Allow(), nil
	}

	res, err := runRecipe(hc, hc.Tools.Linter, timeoutFor(hc, 30*time.Second), ".")
	if err != nil {
		hc.progress("lint-project", "linter could not be started — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if res.ExitCode == 0 && !res.TimedOut {
		return hook.Allow(), nil
	}
	hc.block(diagnostics.Block{
		Title:   "Lint errors",
		Body:    strings.TrimSpace(res.Stdout + "\n" + res.Stderr),
		FixList: []string{"Fix the reported lint errors before finishing."},
	})
	return hook.Fail(), nil
}

// --- test-project ---------------------------------------------------------

type testProject struct{}

// NewTestProject returns the test-project handler.
func NewTestProject() hook.Handler { return testProject{} }

func (testProject) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "test-project",
		DisplayName:    "Test project",
		Description:    "Runs the project's configured test script.",
		Category:       hook.CategoryTesting,
		TriggerEvent:   "Stop",
		Dependencies:   []string{"testRunner"},
		DefaultTimeout: 60 * time.Second,
	}
}

func (testProject) Execute(hc *hook.Context) (hook.Result, error) {
	if stopHookLoopGuard(hc) || !hc.Settings.IsEnabled() {
		return hook.Allow(), nil
	}
	if !project.HasPackageJSON(hc.Root) {
		hc.progress("test-project", "no package.json — skipping")
		return hook.Allow(), nil
	}
	if !hc.Tools.HasTestRunner() {
		hc.progress("test-project", "no test runner detected — skipping")
		return hook.Allow(), nil
	}

	bin, args := packageManagerTestArgv(hc)
	res, err := procrunRun(hc, bin, args, timeoutFor(hc, 60*time.Second))
	if err != nil {
		hc.progress("test-project", "test runner could not be started — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if res.ExitCode == 0 && !res.TimedOut {
		return hook.Allow(), nil
	}
	hc.block(diagnostics.Block{
		Title:   "Project tests failed",
		Body:    strings.TrimSpace(res.Stdout + "\n" + res.Stderr),
		FixList: []string{"Fix the failing tests before finishing."},
	})
	return hook.Fail(), nil
}

// packageManagerTestArgv builds the invocation that runs the package.json
// test script through the detected package manager: "npm test --" and
// "pnpm test --", "yarn test", and "bun run test" (plain "bun test"
// would start bun's built-in runner instead of the script).
func packageManagerTestArgv(hc *hook.Context) (string, []string) {
	switch hc.Tools.PackageManager {
	case toolchain.PackageManagerYarn:
		return "yarn", []string{"test"}
	case toolchain.PackageManagerPNPM:
		return "pnpm", []string{"test", "--"}
	case toolchain.PackageManagerBun:
		return "bun", []string{"run", "test"}
	default:
		return "npm", []string{"test", "--"}
	}
}

package validate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claudekit-dev/claudekit/internal/diagnostics"
	"github.com/claudekit-dev/claudekit/internal/hook"
)

// --- typecheck-changed ---------------------------------------------------

type typecheckChanged struct{}

// NewTypecheckChanged returns the typecheck-changed handler.
func NewTypecheckChanged() hook.Handler { return typecheckChanged{} }

func (typecheckChanged) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "typecheck-changed",
		DisplayName:    "Typecheck changed file",
		Description:    "Runs the project type checker in no-emit mode when a TypeScript file changes.",
		Category:       hook.CategoryValidation,
		TriggerEvent:   "PostToolUse",
		Dependencies:   []string{"typeChecker"},
		DefaultTimeout: 45 * time.Second,
	}
}

// Execute runs the whole-project no-emit type check whenever a .ts/.tsx
// file was touched. TypeScript cannot correctly check a single file in
// isolation for cross-file errors, so "changed file" here means
// "something worth re-checking the project for", not "check this file
// alone".
func (typecheckChanged) Execute(hc *hook.Context) (hook.Result, error) {
	if hc.Payload == nil || !isTSFile(hc.Payload.FilePath) {
		return hook.Allow(), nil
	}
	if !hc.Tools.HasTypeChecker() {
		hc.progress("typecheck-changed", "no TypeScript project detected — skipping")
		return hook.Allow(), nil
	}

	res, err := runRecipe(hc, hc.Tools.TypeChecker, timeoutFor(hc, 45*time.Second), "--noEmit")
	if err != nil {
		hc.progress("typecheck-changed", "type checker could not be started — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if res.TimedOut {
		hc.block(diagnostics.Block{
			Title:   "Type check timed out",
			Body:    "tsc --noEmit did not finish within the configured timeout.",
			FixList: []string{"Narrow the project's tsconfig include list.", "Increase the typecheck-changed timeout in .claudekit/config.json."},
		})
		return hook.Fail(), nil
	}
	if res.ExitCode != 0 {
		hc.block(diagnostics.Block{
			Title:   "Type errors",
			Body:    strings.TrimSpace(res.Stdout + "\n" + res.Stderr),
			FixList: []string{"Fix the reported type errors.", "Re-run the triggering action."},
		})
		return hook.Fail(), nil
	}
	return hook.Allow(), nil
}

// --- lint-changed ---------------------------------------------------------

type lintChanged struct{}

// NewLintChanged returns the lint-changed handler.
func NewLintChanged() hook.Handler { return lintChanged{} }

func (lintChanged) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "lint-changed",
		DisplayName:    "Lint changed file",
		Description:    "Runs the project linter against a single changed JS/TS file.",
		Category:       hook.CategoryValidation,
		TriggerEvent:   "PostToolUse",
		Dependencies:   []string{"linter"},
		DefaultTimeout: 30 * time.Second,
	}
}

func (lintChanged) Execute(hc *hook.Context) (hook.Result, error) {
	if hc.Payload == nil || !isJSOrTSFile(hc.Payload.FilePath) {
		return hook.Allow(), nil
	}
	if !hc.Tools.HasLinter() {
		hc.block(diagnostics.Block{Title: "ESLint not detected", Body: "skipping lint-changed"})
		return hook.Allow(), nil
	}

	res, err := runRecipe(hc, hc.Tools.Linter, timeoutFor(hc, 30*time.Second), hc.Payload.FilePath)
	if err != nil {
		hc.progress("lint-changed", "linter could not be started — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if res.ExitCode == 0 && !res.TimedOut {
		return hook.Allow(), nil
	}
	hc.block(diagnostics.Block{
		Title:   "Lint errors",
		Body:    strings.TrimSpace(res.Stderr),
		FixList: []string{fmt.Sprintf("Fix the reported lint errors in %s.", hc.Payload.FilePath), "Re-run the triggering action."},
	})
	return hook.Fail(), nil
}

// --- check-any-changed ------------------------------------------------------

type checkAnyChanged struct{}

// NewCheckAnyChanged returns the check-any-changed handler.
func NewCheckAnyChanged() hook.Handler { return checkAnyChanged{} }

func (checkAnyChanged) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "check-any-changed",
		DisplayName:    "Check for explicit any",
		Description:    "Scans a changed TypeScript file for explicit `any` usage.",
		Category:       hook.CategoryValidation,
		TriggerEvent:   "PostToolUse",
		DefaultTimeout: 5 * time.Second,
	}
}

func (checkAnyChanged) Execute(hc *hook.Context) (hook.Result, error) {
	if hc.Payload == nil || !isTSFile(hc.Payload.FilePath) {
		return hook.Allow(), nil
	}

	data, err := os.ReadFile(hc.Payload.FilePath)
	if err != nil {
		hc.progress("check-any-changed", "could not read changed file — skipping: "+err.Error())
		return hook.Allow(), nil
	}

	occurrences := ScanAnyUsages(string(data))
	if len(occurrences) == 0 {
		return hook.Allow(), nil
	}

	var body strings.Builder
	for _, occ := range occurrences {
		fmt.Fprintf(&body, "%s:%d: %s\n", hc.Payload.FilePath, occ.Line, occ.Text)
	}
	hc.block(diagnostics.Block{
		Title: "Explicit any usage",
		Body:  strings.TrimSpace(body.String()),
		FixList: []string{
			"Replace `any` with a precise type or `unknown` plus a narrowing check.",
			"If the escape hatch is unavoidable, scope it with a local `// eslint-disable-next-line` and a comment explaining why.",
		},
	})
	return hook.Fail(), nil
}

// --- test-changed -----------------------------------------------------------

type testChanged struct{}

// NewTestChanged returns the test-changed handler.
func NewTestChanged() hook.Handler { return testChanged{} }

func (testChanged) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "test-changed",
		DisplayName:    "Test changed file",
		Description:    "Runs tests related to a changed source file by naming convention.",
		Category:       hook.CategoryTesting,
		TriggerEvent:   "PostToolUse",
		Dependencies:   []string{"testRunner"},
		DefaultTimeout: 60 * time.Second,
	}
}

func (testChanged) Execute(hc *hook.Context) (hook.Result, error) {
	if hc.Payload == nil || hc.Payload.FilePath == "" || !isJSOrTSFile(hc.Payload.FilePath) {
		return hook.Allow(), nil
	}
	if !hc.Tools.HasTestRunner() {
		hc.progress("test-changed", "no test runner detected — skipping")
		return hook.Allow(), nil
	}

	tests := relatedTests(hc.Root, hc.Payload.FilePath)
	if len(tests) == 0 {
		hc.progress("test-changed", "no related tests found — skipping")
		return hook.Allow(), nil
	}

	res, err := runRecipe(hc, hc.Tools.TestRunner, timeoutFor(hc, 60*time.Second), tests...)
	if err != nil {
		hc.progress("test-changed", "test runner could not be started — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if res.ExitCode == 0 && !res.TimedOut {
		return hook.Allow(), nil
	}
	hc.block(diagnostics.Block{
		Title:   "Related tests failed",
		Body:    strings.TrimSpace(res.Stdout + "\n" + res.Stderr),
		FixList: []string{"Fix the failing tests listed above.", "Re-run the triggering action."},
	})
	return hook.Fail(), nil
}

// relatedTests finds tests for changedFile by convention: sibling
// <name>.test.<ext>/<name>.spec.<ext>; every test file under any
// __tests__/ directory in the project, whether or not it mirrors the
// source path; any test whose file name contains the module name. The
// walk is bounded to the project root and skips node_modules and .git.
func relatedTests(root, changedFile string) []string {
	dir := filepath.Dir(changedFile)
	ext := filepath.Ext(changedFile)
	base := strings.TrimSuffix(filepath.Base(changedFile), ext)

	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, suffix := range []string{".test", ".spec"} {
		for _, testExt := range []string{".ts", ".tsx", ".js", ".jsx"} {
			candidate := filepath.Join(dir, base+suffix+testExt)
			if fileExists(candidate) {
				add(candidate)
			}
		}
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.Contains(name, ".test.") && !strings.Contains(name, ".spec.") {
			return nil
		}
		if strings.Contains(path, string(filepath.Separator)+"__tests__"+string(filepath.Separator)) || strings.Contains(name, base) {
			add(path)
		}
		return nil
	})

	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package toolchain

// PackageManager identifies which Node package manager a project uses.
type PackageManager string

const (
	PackageManagerNPM  PackageManager = "npm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerPNPM PackageManager = "pnpm"
	PackageManagerBun  PackageManager = "bun"
	PackageManagerNone PackageManager = "none"
)

// Recipe is a concrete invocation for a detected tool: the binary to
// exec and the argv prefix to invoke it with (e.g. Bin "npx" with
// ["--no-install", "tsc"] for the npm exec fallback). Recipes are always spawned as argv
// arrays, never through a shell.
type Recipe struct {
	Bin  string
	Args []string
}

// Argv returns the full argv for invoking this recipe with trailing
// arguments appended as discrete elements.
func (r Recipe) Argv(trailing ...string) (string, []string) {
	args := make([]string, 0, len(r.Args)+len(trailing))
	args = append(args, r.Args...)
	args = append(args, trailing...)
	return r.Bin, args
}

// ToolSet describes the tooling detected for a project root.
type ToolSet struct {
	PackageManager PackageManager
	TypeChecker    *Recipe // tsc, present iff TypeScript is in use
	Linter         *Recipe // eslint
	TestRunner     *Recipe // jest, vitest, or mocha
	TestRunnerName string  // "jest" | "vitest" | "mocha"
	Git            bool
	Prettier       bool
	Scripts        map[string]string
}

// HasTypeChecker reports whether a type checker was detected.
func (t *ToolSet) HasTypeChecker() bool { return t != nil && t.TypeChecker != nil }

// HasLinter reports whether a linter was detected.
func (t *ToolSet) HasLinter() bool { return t != nil && t.Linter != nil }

// HasTestRunner reports whether a test runner was detected.
func (t *ToolSet) HasTestRunner() bool { return t != nil && t.TestRunner != nil }

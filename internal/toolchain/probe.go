// Package toolchain detects a project's package manager and dev tooling
// without doing anything more expensive than stat calls and a
// package.json parse.
package toolchain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var (
	cacheMu sync.Mutex
	cache   = map[string]*ToolSet{}
)

// packageJSON is the subset of package.json fields the probe consumes.
type packageJSON struct {
	PackageManager  string            `json:"packageManager"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	ESLintConfig    json.RawMessage   `json:"eslintConfig"`
}

// Probe detects the package manager, type checker, linter, test runner,
// and VCS presence for the project rooted at root. Results are cached
// per root for the life of the process.
func Probe(root string) (*ToolSet, error) {
	cacheMu.Lock()
	if ts, ok := cache[root]; ok {
		cacheMu.Unlock()
		return ts, nil
	}
	cacheMu.Unlock()

	ts := &ToolSet{Scripts: map[string]string{}}

	pkg, _ := readPackageJSON(root)
	if pkg != nil {
		ts.Scripts = pkg.Scripts
	}

	ts.PackageManager = detectPackageManager(root, pkg)
	ts.Git = isDir(filepath.Join(root, ".git"))

	if hasTypeScript(root, pkg) {
		ts.TypeChecker = resolveRecipe(root, ts.PackageManager, "tsc")
	}

	if hasESLintConfig(root, pkg) {
		ts.Linter = resolveRecipe(root, ts.PackageManager, "eslint")
	}

	if name, ok := detectTestRunner(pkg); ok {
		ts.TestRunnerName = name
		ts.TestRunner = resolveRecipe(root, ts.PackageManager, name)
	}

	ts.Prettier = hasDependency(pkg, "prettier") || fileExists(root, ".prettierrc") != ""

	cacheMu.Lock()
	cache[root] = ts
	cacheMu.Unlock()

	return ts, nil
}

// ResetCache clears the memoization cache. Exposed for tests.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = map[string]*ToolSet{}
}

func readPackageJSON(root string) (*packageJSON, error) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

type lockfileCandidate struct {
	pm   PackageManager
	rank int
	path string
}

// detectPackageManager applies a fixed lockfile precedence order
// (bun.lockb > pnpm-lock.yaml > yarn.lock > package-lock.json >
// package.json's packageManager field > npm). Every lockfile has its own
// rank, so when several are present the highest-precedence one wins;
// modification time only orders entries of equal rank, which this table
// never produces.
func detectPackageManager(root string, pkg *packageJSON) PackageManager {
	candidates := []lockfileCandidate{
		{PackageManagerBun, 0, "bun.lockb"},
		{PackageManagerPNPM, 1, "pnpm-lock.yaml"},
		{PackageManagerYarn, 2, "yarn.lock"},
		{PackageManagerNPM, 3, "package-lock.json"},
	}

	type found struct {
		pm    PackageManager
		rank  int
		mtime int64
	}
	var present []found
	for _, c := range candidates {
		info, err := os.Stat(filepath.Join(root, c.path))
		if err != nil {
			continue
		}
		present = append(present, found{pm: c.pm, rank: c.rank, mtime: info.ModTime().UnixNano()})
	}

	if len(present) > 0 {
		sort.Slice(present, func(i, j int) bool {
			if present[i].rank != present[j].rank {
				return present[i].rank < present[j].rank
			}
			return present[i].mtime > present[j].mtime
		})
		return present[0].pm
	}

	if pkg != nil && pkg.PackageManager != "" {
		name := pkg.PackageManager
		for i, r := range name {
			if r == '@' {
				name = name[:i]
				break
			}
		}
		switch name {
		case "npm":
			return PackageManagerNPM
		case "yarn":
			return PackageManagerYarn
		case "pnpm":
			return PackageManagerPNPM
		case "bun":
			return PackageManagerBun
		}
	}

	return PackageManagerNPM
}

func hasTypeScript(root string, pkg *packageJSON) bool {
	if isFile(filepath.Join(root, "tsconfig.json")) {
		return true
	}
	return hasDependency(pkg, "typescript")
}

func hasESLintConfig(root string, pkg *packageJSON) bool {
	patterns := []string{
		".eslintrc", ".eslintrc.js", ".eslintrc.cjs", ".eslintrc.json", ".eslintrc.yaml", ".eslintrc.yml",
		"eslint.config.js", "eslint.config.mjs", "eslint.config.cjs", "eslint.config.ts",
	}
	for _, p := range patterns {
		if isFile(filepath.Join(root, p)) {
			return true
		}
	}
	return pkg != nil && len(pkg.ESLintConfig) > 0
}

var testRunnerNames = []string{"jest", "vitest", "mocha"}

func detectTestRunner(pkg *packageJSON) (string, bool) {
	if pkg == nil {
		return "", false
	}
	for _, name := range testRunnerNames {
		if hasDependency(pkg, name) {
			return name, true
		}
	}
	if script, ok := pkg.Scripts["test"]; ok {
		for _, name := range testRunnerNames {
			if containsWord(script, name) {
				return name, true
			}
		}
	}
	return "", false
}

func hasDependency(pkg *packageJSON, name string) bool {
	if pkg == nil {
		return false
	}
	if _, ok := pkg.Dependencies[name]; ok {
		return true
	}
	_, ok := pkg.DevDependencies[name]
	return ok
}

func containsWord(haystack, word string) bool {
	for i := 0; i+len(word) <= len(haystack); i++ {
		if haystack[i:i+len(word)] == word {
			return true
		}
	}
	return false
}

// resolveRecipe prefers a locally installed binary under
// node_modules/.bin, then falls back to the package manager's exec
// command, and finally returns nil (tool absent — callers soft-skip).
func resolveRecipe(root string, pm PackageManager, tool string) *Recipe {
	local := filepath.Join(root, "node_modules", ".bin", tool)
	if isExecutable(local) {
		return &Recipe{Bin: local}
	}

	switch pm {
	case PackageManagerNPM:
		return &Recipe{Bin: "npx", Args: []string{"--no-install", tool}}
	case PackageManagerYarn:
		return &Recipe{Bin: "yarn", Args: []string{"dlx", tool}}
	case PackageManagerPNPM:
		return &Recipe{Bin: "pnpm", Args: []string{"dlx", tool}}
	case PackageManagerBun:
		return &Recipe{Bin: "bunx", Args: []string{tool}}
	default:
		return nil
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

func fileExists(root, name string) string {
	p := filepath.Join(root, name)
	if isFile(p) {
		return p
	}
	return ""
}

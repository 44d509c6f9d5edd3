package toolchain

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestProbe_LockfilePrecedence(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package-lock.json"), "{}")
	writeFile(t, filepath.Join(root, "yarn.lock"), "")
	writeFile(t, filepath.Join(root, "pnpm-lock.yaml"), "")
	writeFile(t, filepath.Join(root, "bun.lockb"), "")

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.PackageManager != PackageManagerBun {
		t.Errorf("PackageManager = %q, want bun (highest precedence)", ts.PackageManager)
	}
}

func TestProbe_PackageManagerFieldFallback(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"packageManager":"pnpm@8.0.0"}`)

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.PackageManager != PackageManagerPNPM {
		t.Errorf("PackageManager = %q, want pnpm", ts.PackageManager)
	}
}

func TestProbe_DefaultsToNPM(t *testing.T) {
	ResetCache()
	root := t.TempDir()

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.PackageManager != PackageManagerNPM {
		t.Errorf("PackageManager = %q, want npm default", ts.PackageManager)
	}
}

func TestProbe_SingleYarnLockfileSelectsYarn(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	// Lockfile ranks are distinct, so recency never decides between two
	// lockfiles; a lone yarn.lock must select yarn.
	p1 := filepath.Join(root, "yarn.lock")
	writeFile(t, p1, "")
	time.Sleep(2 * time.Millisecond)

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.PackageManager != PackageManagerYarn {
		t.Errorf("PackageManager = %q, want yarn", ts.PackageManager)
	}
}

func TestProbe_TypeScriptDetection(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), "{}")

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasTypeChecker() {
		t.Error("expected type checker to be detected via tsconfig.json")
	}
}

func TestProbe_TypeScriptViaDependency(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"devDependencies":{"typescript":"^5.0.0"}}`)

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasTypeChecker() {
		t.Error("expected type checker to be detected via devDependencies")
	}
}

func TestProbe_NoTypeScript(t *testing.T) {
	ResetCache()
	root := t.TempDir()

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.HasTypeChecker() {
		t.Error("expected no type checker detected")
	}
}

func TestProbe_ESLintConfigFile(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".eslintrc.json"), "{}")

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasLinter() {
		t.Error("expected linter to be detected via .eslintrc.json")
	}
}

func TestProbe_ESLintFlatConfig(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eslint.config.js"), "")

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasLinter() {
		t.Error("expected linter to be detected via eslint.config.js")
	}
}

func TestProbe_ESLintConfigKeyInPackageJSON(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"eslintConfig":{"extends":"eslint:recommended"}}`)

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasLinter() {
		t.Error("expected linter to be detected via eslintConfig key")
	}
}

func TestProbe_NoLinter(t *testing.T) {
	ResetCache()
	root := t.TempDir()

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.HasLinter() {
		t.Error("expected no linter detected")
	}
}

func TestProbe_TestRunnerFromDependency(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"devDependencies":{"vitest":"^1.0.0"}}`)

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasTestRunner() || ts.TestRunnerName != "vitest" {
		t.Errorf("expected vitest detected, got %+v", ts)
	}
}

func TestProbe_TestRunnerFromScript(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"scripts":{"test":"jest --coverage"}}`)

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasTestRunner() || ts.TestRunnerName != "jest" {
		t.Errorf("expected jest detected, got %+v", ts)
	}
}

func TestProbe_GitDetection(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ts.Git {
		t.Error("expected Git = true")
	}
}

func TestProbe_CachesPerRoot(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	first, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "tsconfig.json"), "{}")
	second, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if second.HasTypeChecker() {
		t.Error("expected cached result, not re-probed")
	}
	if first != second {
		t.Error("expected identical cached pointer")
	}
}

func TestProbe_ResolveRecipeFallsBackToPackageManagerExec(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), "{}")
	writeFile(t, filepath.Join(root, "package-lock.json"), "{}")

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.TypeChecker == nil {
		t.Fatal("expected type checker recipe")
	}
	if ts.TypeChecker.Bin != "npx" {
		t.Errorf("Bin = %q, want npx fallback", ts.TypeChecker.Bin)
	}
}

func TestProbe_PrefersLocalBinOverExecFallback(t *testing.T) {
	ResetCache()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), "{}")
	binDir := filepath.Join(root, "node_modules", ".bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	tscPath := filepath.Join(binDir, "tsc")
	if err := os.WriteFile(tscPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	ts, err := Probe(root)
	if err != nil {
		t.Fatal(err)
	}
	if ts.TypeChecker.Bin != tscPath {
		t.Errorf("Bin = %q, want local bin %q", ts.TypeChecker.Bin, tscPath)
	}
}

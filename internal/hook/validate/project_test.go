package validate

import (
	"bytes"
	"context"
	"testing"

	"github.com/claudekit-dev/claudekit/internal/hook"
	"github.com/claudekit-dev/claudekit/internal/hookio"
	"github.com/claudekit-dev/claudekit/internal/toolchain"
)

// bareRepoContext builds a Context over a directory with no package.json
// (e.g. a bare git repo with a stray tsconfig.json/.eslintrc), to verify
// project-wide hooks soft-skip rather than try to spawn a tool.
func bareRepoContext(t *testing.T, tools *toolchain.ToolSet) *hook.Context {
	t.Helper()
	var stderr bytes.Buffer
	return &hook.Context{
		Ctx:     context.Background(),
		Payload: &hookio.Payload{},
		Root:    t.TempDir(),
		Tools:   tools,
		Stderr:  &stderr,
	}
}

func TestTypecheckProject_SkipsWhenStopHookActive(t *testing.T) {
	tools := &toolchain.ToolSet{TypeChecker: &toolchain.Recipe{Bin: "false"}}
	hc, _ := newContext(t, &hookio.Payload{StopHookActive: true}, tools)
	res, err := NewTypecheckProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow (stop_hook_active guard), got %+v err=%v", res, err)
	}
}

func TestTypecheckProject_BlocksOnFailure(t *testing.T) {
	tools := &toolchain.ToolSet{TypeChecker: &toolchain.Recipe{Bin: "false"}}
	hc, stderr := newContext(t, &hookio.Payload{}, tools)
	res, err := NewTypecheckProject().Execute(hc)
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", res.ExitCode)
	}
	if stderr.Len() == 0 {
		t.Error("expected a formatted error block")
	}
}

func TestLintProject_SoftSkipsWhenLinterAbsent(t *testing.T) {
	hc, _ := newContext(t, &hookio.Payload{}, &toolchain.ToolSet{})
	res, err := NewLintProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow, got %+v err=%v", res, err)
	}
}

func TestLintProject_AllowsOnSuccess(t *testing.T) {
	tools := &toolchain.ToolSet{Linter: &toolchain.Recipe{Bin: "true"}}
	hc, _ := newContext(t, &hookio.Payload{}, tools)
	res, err := NewLintProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow, got %+v err=%v", res, err)
	}
}

func TestTestProject_SoftSkipsWhenNoTestRunner(t *testing.T) {
	hc, _ := newContext(t, &hookio.Payload{}, &toolchain.ToolSet{})
	res, err := NewTestProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow, got %+v err=%v", res, err)
	}
}

func TestTestProject_HonorsDisabledSetting(t *testing.T) {
	tools := &toolchain.ToolSet{TestRunner: &toolchain.Recipe{Bin: "false"}}
	hc, _ := newContext(t, &hookio.Payload{}, tools)
	disabled := false
	hc.Settings.Enabled = &disabled
	res, err := NewTestProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow (hook disabled), got %+v err=%v", res, err)
	}
}

func TestTypecheckProject_SoftSkipsWithoutPackageJSON(t *testing.T) {
	tools := &toolchain.ToolSet{TypeChecker: &toolchain.Recipe{Bin: "false"}}
	hc := bareRepoContext(t, tools)
	res, err := NewTypecheckProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow (no package.json), got %+v err=%v", res, err)
	}
}

func TestLintProject_SoftSkipsWithoutPackageJSON(t *testing.T) {
	tools := &toolchain.ToolSet{Linter: &toolchain.Recipe{Bin: "false"}}
	hc := bareRepoContext(t, tools)
	res, err := NewLintProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow (no package.json), got %+v err=%v", res, err)
	}
}

func TestTestProject_SoftSkipsWithoutPackageJSON(t *testing.T) {
	tools := &toolchain.ToolSet{TestRunner: &toolchain.Recipe{Bin: "false"}}
	hc := bareRepoContext(t, tools)
	res, err := NewTestProject().Execute(hc)
	if err != nil || res.ExitCode != 0 {
		t.Fatalf("want allow (no package.json), got %+v err=%v", res, err)
	}
}

func TestPackageManagerTestArgv_SelectsByPackageManager(t *testing.T) {
	cases := []struct {
		pm      toolchain.PackageManager
		wantBin string
	}{
		{toolchain.PackageManagerNPM, "npm"},
		{toolchain.PackageManagerYarn, "yarn"},
		{toolchain.PackageManagerPNPM, "pnpm"},
		{toolchain.PackageManagerBun, "bun"},
	}
	for _, tc := range cases {
		hc, _ := newContext(t, &hookio.Payload{}, &toolchain.ToolSet{PackageManager: tc.pm})
		bin, _ := packageManagerTestArgv(hc)
		if bin != tc.wantBin {
			t.Errorf("pm=%v: bin = %q, want %q", tc.pm, bin, tc.wantBin)
		}
	}
}

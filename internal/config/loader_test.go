package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJSON(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_NoFilesReturnsDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	cfg, warnings, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if cfg.Hooks == nil {
		t.Error("Hooks map should be initialized even when empty")
	}
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeJSON(t, filepath.Join(home, ".claudekit", "config.json"), `{
		"hooks": {"lint-changed": {"timeout": 1000, "enabled": true}}
	}`)

	root := t.TempDir()
	writeJSON(t, ProjectConfigPath(root), `{
		"hooks": {"lint-changed": {"timeout": 5000}}
	}`)

	cfg, _, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := cfg.Hooks["lint-changed"]
	if got.TimeoutMS != 5000 {
		t.Errorf("TimeoutMS = %d, want 5000 (project overrides user)", got.TimeoutMS)
	}
	if got.Enabled == nil || !*got.Enabled {
		t.Errorf("Enabled should still be true from user layer (object merge), got %+v", got)
	}
}

func TestLoad_MalformedProjectConfigDegradesToWarning(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeJSON(t, ProjectConfigPath(root), `{not valid json`)

	cfg, warnings, err := Load(root)
	if err != nil {
		t.Fatalf("Load should not fail on malformed JSON: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for malformed project config")
	}
	if cfg == nil {
		t.Fatal("expected non-nil fallback config")
	}
}

func TestLoad_UnknownKeysPreservedAsExtra(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeJSON(t, ProjectConfigPath(root), `{
		"hooks": {"create-checkpoint": {"prefix": "claude", "maxCheckpoints": 5}}
	}`)

	cfg, _, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	settings := cfg.Hooks["create-checkpoint"]
	if settings.ExtraString("prefix", "") != "claude" {
		t.Errorf("prefix = %q, want claude", settings.ExtraString("prefix", ""))
	}
	if settings.ExtraInt("maxCheckpoints", -1) != 5 {
		t.Errorf("maxCheckpoints = %d, want 5", settings.ExtraInt("maxCheckpoints", -1))
	}
}

func TestLoad_UnknownTopLevelKeyIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeJSON(t, ProjectConfigPath(root), `{"somethingElseEntirely": {"a": 1}}`)

	_, warnings, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_ = warnings // schema validation tolerates unknown top-level keys
}

func TestHookSettings_IsEnabledDefaultsTrue(t *testing.T) {
	var s HookSettings
	if !s.IsEnabled() {
		t.Error("IsEnabled() should default to true when unset")
	}
	f := false
	s.Enabled = &f
	if s.IsEnabled() {
		t.Error("IsEnabled() should be false when explicitly disabled")
	}
}

func TestManager_CachesAcrossCalls(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeJSON(t, ProjectConfigPath(root), `{"hooks": {"lint-changed": {"timeout": 111}}}`)

	m := NewManager(root)
	first := m.Get()

	// Mutate the file after first load; cached result must not change.
	writeJSON(t, ProjectConfigPath(root), `{"hooks": {"lint-changed": {"timeout": 999}}}`)
	second := m.Get()

	if first != second {
		t.Error("expected identical cached pointer across Get calls")
	}
	if second.Hooks["lint-changed"].TimeoutMS != 111 {
		t.Errorf("TimeoutMS = %d, want 111 (loaded once, cached)", second.Hooks["lint-changed"].TimeoutMS)
	}
}

func TestConfig_SettingAppliesDefaultTimeout(t *testing.T) {
	cfg := &Config{Hooks: map[string]HookSettings{}}
	s := cfg.Setting("typecheck-changed", 45000)
	if s.TimeoutMS != 45000 {
		t.Errorf("TimeoutMS = %d, want default 45000", s.TimeoutMS)
	}
}

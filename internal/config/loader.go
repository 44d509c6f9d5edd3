package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ProjectConfigPath returns the project-level config file path for root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, ".claudekit", "config.json")
}

// UserConfigPath returns the user-level config file path.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claudekit", "config.json")
}

// Load reads the user config (lower precedence) and the project config
// (higher precedence) and deep-merges them: objects merge key-by-key,
// arrays and scalars from the project layer replace the user layer's.
// Malformed JSON in either layer degrades that layer to defaults with a
// warning rather than failing the invocation. Schema mismatches are
// reported as warnings and the merged values are kept; only a merged
// document that cannot be decoded into Config falls back to defaults.
// Neither case is a fatal error, since a hook must still run on a broken
// config rather than block the user's workflow. Keys are lower-cased by
// the merge.
func Load(root string) (*Config, []string, error) {
	return LoadWithOverride(root, "")
}

// LoadWithOverride is Load plus an optional extra config file (the
// dispatcher's `--config <path>` flag) merged on top of the project
// layer as the highest-precedence source.
func LoadWithOverride(root, overridePath string) (*Config, []string, error) {
	var warnings []string

	v := viper.New()
	v.SetConfigType("json")

	if userPath := UserConfigPath(); userPath != "" && fileExists(userPath) {
		v.SetConfigFile(userPath)
		if err := v.ReadInConfig(); err != nil {
			warnings = append(warnings, fmt.Sprintf("user config %s: %v (using defaults)", userPath, err))
		}
	}

	projectPath := ProjectConfigPath(root)
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			warnings = append(warnings, fmt.Sprintf("project config %s: %v (using defaults)", projectPath, err))
		}
	}

	if overridePath != "" && fileExists(overridePath) {
		v.SetConfigFile(overridePath)
		if err := v.MergeInConfig(); err != nil {
			warnings = append(warnings, fmt.Sprintf("override config %s: %v (using defaults)", overridePath, err))
		}
	}

	raw := v.AllSettings()

	if shapeWarnings := validateShape(raw); len(shapeWarnings) > 0 {
		warnings = append(warnings, shapeWarnings...)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return &Config{Hooks: map[string]HookSettings{}}, warnings, nil
	}

	cfg := &Config{Hooks: map[string]HookSettings{}}
	if err := json.Unmarshal(data, cfg); err != nil {
		warnings = append(warnings, fmt.Sprintf("merged config did not match expected shape: %v (using defaults)", err))
		return &Config{Hooks: map[string]HookSettings{}}, warnings, nil
	}
	if cfg.Hooks == nil {
		cfg.Hooks = map[string]HookSettings{}
	}

	return cfg, warnings, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cuggino/cuggino/internal/cerrors"
)

// NotifyMode selects the notification backend the watcher should drive
// on idle-phase state transitions.
type NotifyMode string

const (
	NotifyNone     NotifyMode = "none"
	NotifyOSXNotif NotifyMode = "osx-notification"
)

// Config is the configuration record persisted at the workspace root as
// JSON. Every field has a default so an empty object reads back fully
// populated.
type Config struct {
	SpecsPath     string     `json:"specsPath"`
	MaxIterations int        `json:"maxIterations"`
	SetupCommand  string     `json:"setupCommand,omitempty"`
	CheckCommand  string     `json:"checkCommand,omitempty"`
	Commit        bool       `json:"commit"`
	Push          string     `json:"push,omitempty"`
	Audit         bool       `json:"audit"`
	Notify        NotifyMode `json:"notify"`
}

// DefaultConfig returns the fully-populated default record.
func DefaultConfig() Config {
	return Config{
		SpecsPath:     ".specs",
		MaxIterations: 10,
		Commit:        false,
		Audit:         false,
		Notify:        NotifyNone,
	}
}

// configDefaults applies DefaultConfig's values onto a fresh viper
// instance by calling SetDefault per field before reading the file on
// disk, so a partial or missing config file still reads back complete.
func configDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("specsPath", d.SpecsPath)
	v.SetDefault("maxIterations", d.MaxIterations)
	v.SetDefault("setupCommand", d.SetupCommand)
	v.SetDefault("checkCommand", d.CheckCommand)
	v.SetDefault("commit", d.Commit)
	v.SetDefault("push", d.Push)
	v.SetDefault("audit", d.Audit)
	v.SetDefault("notify", string(d.Notify))
}

// readConfig returns a fully-populated Config read from path. Malformed
// JSON reduces to the default record rather than failing; a missing file
// likewise yields defaults since viper.ReadInConfig's os.IsNotExist case
// is treated the same as empty content.
func readConfig(path string) Config {
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(path)
	configDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return DefaultConfig()
	}

	return Config{
		SpecsPath:     v.GetString("specsPath"),
		MaxIterations: v.GetInt("maxIterations"),
		SetupCommand:  v.GetString("setupCommand"),
		CheckCommand:  v.GetString("checkCommand"),
		Commit:        v.GetBool("commit"),
		Push:          v.GetString("push"),
		Audit:         v.GetBool("audit"),
		Notify:        NotifyMode(v.GetString("notify")),
	}
}

// writeConfig serializes cfg to path as JSON with a trailing newline.
func writeConfig(path string, cfg Config) error {
	body, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &cerrors.StorageError{Operation: "writeConfig", Err: err}
	}
	body = append(body, '\n')
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return &cerrors.StorageError{Operation: "writeConfig", Err: err}
	}
	return nil
}

// configPath returns the workspace-root path of the configuration file.
func configPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".cuggino.json")
}

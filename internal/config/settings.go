package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the user preferences that survive restarts.
type Settings struct {
	ShowFilePath bool `yaml:"show_file_path" json:"show_file_path"`
	ShowDueOnly  bool `yaml:"show_due_only" json:"show_due_only"`
}

func DefaultSettings() Settings {
	return Settings{
		ShowFilePath: true,
		ShowDueOnly:  false,
	}
}

// SettingsFile is a YAML file holding Settings.
type SettingsFile struct {
	path string
}

func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{path: path}
}

func (f *SettingsFile) Path() string {
	return f.path
}

// Load reads the file over the defaults; keys missing from the file keep their
// default value and a missing file yields the defaults.
func (f *SettingsFile) Load() (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to decode settings %s: %w", f.path, err)
	}
	return s, nil
}

func (f *SettingsFile) Save(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

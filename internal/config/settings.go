package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"urlname/internal/utils"

	"github.com/gofrs/flock"
)

// ErrInvalidSettings is wrapped by every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the on-disk configuration.
type Settings struct {
	Filename FilenameSettings `json:"filename"`
	General  GeneralSettings  `json:"general"`
}

// FilenameSettings mirrors utils.Policy.
type FilenameSettings struct {
	Default        string   `json:"default"`
	Extensions     []string `json:"extensions"`
	AppendExt      string   `json:"append_ext"`
	UniqueFallback bool     `json:"unique_fallback"`
}

type GeneralSettings struct {
	LogRetentionCount int `json:"log_retention_count"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Filename: FilenameSettings{
			Default:    utils.DefaultFilename,
			Extensions: append([]string(nil), utils.MediaExtensions...),
			AppendExt:  utils.DefaultAppendExt,
		},
		General: GeneralSettings{
			LogRetentionCount: 5,
		},
	}
}

// LoadSettings reads settings.json from the config dir. A missing file yields the defaults.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom reads settings from path. Fields absent from the file keep their defaults.
func LoadSettingsFrom(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	settings.normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings writes s to the config dir.
func SaveSettings(s *Settings) error {
	if err := EnsureDirs(); err != nil {
		return err
	}
	return SaveSettingsTo(GetSettingsPath(), s)
}

// SaveSettingsTo writes s to path through a temp file and rename, holding a
// file lock so concurrent writers do not interleave.
func SaveSettingsTo(path string, s *Settings) error {
	if s == nil {
		return fmt.Errorf("%w: nil settings", ErrInvalidSettings)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking settings: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			utils.Debug("Error releasing settings lock: %v", err)
		}
	}()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

func (s *Settings) normalize() {
	s.Filename.Default = strings.TrimSpace(s.Filename.Default)
	s.Filename.AppendExt = strings.ToLower(strings.TrimSpace(s.Filename.AppendExt))
	exts := make([]string, 0, len(s.Filename.Extensions))
	for _, ext := range s.Filename.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	s.Filename.Extensions = exts
}

// Validate checks that the filename policy can always produce a usable name.
func (s *Settings) Validate() error {
	f := s.Filename
	if f.Default == "" {
		return fmt.Errorf("%w: filename.default is empty", ErrInvalidSettings)
	}
	if utils.SanitizeFilename(f.Default) != f.Default || strings.ContainsAny(f.Default, `/\`) {
		return fmt.Errorf("%w: filename.default %q is not a safe filename", ErrInvalidSettings, f.Default)
	}
	if len(f.Extensions) == 0 {
		return fmt.Errorf("%w: filename.extensions is empty", ErrInvalidSettings)
	}
	for _, ext := range f.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidSettings, ext)
		}
	}
	if !strings.HasPrefix(f.AppendExt, ".") || len(f.AppendExt) < 2 {
		return fmt.Errorf("%w: filename.append_ext %q must start with a dot", ErrInvalidSettings, f.AppendExt)
	}
	return nil
}

// Policy builds the extractor policy described by these settings.
func (s *Settings) Policy() utils.Policy {
	p := utils.DefaultPolicy()
	p.Default = s.Filename.Default
	p.Extensions = append([]string(nil), s.Filename.Extensions...)
	p.AppendExt = s.Filename.AppendExt
	p.UniqueFallback = s.Filename.UniqueFallback
	return p
}

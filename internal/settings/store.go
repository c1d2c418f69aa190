package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-user config directory.
const AppName = "browseassist"

// DefaultPath returns settings.json under the XDG config directory.
// On Linux: ~/.config/browseassist/settings.json
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "settings.json")
}

// Store persists one Settings record as JSON in a single file.
type Store struct {
	Path string
}

// NewStore returns a Store at path, or at DefaultPath when path is empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{Path: path}
}

// Load reads the record. A missing file yields Defaults. Fields absent from
// the file keep their default values.
func (s *Store) Load() (Settings, error) {
	out := Defaults()
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return Defaults(), fmt.Errorf("decode settings %s: %w", s.Path, err)
	}
	out.DisabledSites = normalizeSites(out.DisabledSites)
	return out, nil
}

// Save replaces the record as a whole: it writes a temp file next to the
// target and renames it into place, so readers see either the old or the
// new record. The file is private to the user because it holds the API key.
func (s *Store) Save(st Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Update loads the record, applies fn and saves the result.
func (s *Store) Update(fn func(Settings) Settings) (Settings, error) {
	cur, err := s.Load()
	if err != nil {
		return cur, err
	}
	next := fn(cur)
	return next, s.Save(next)
}

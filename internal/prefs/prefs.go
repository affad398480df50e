// Package prefs persists user preferences between sessions. It is the
// Go counterpart of the original dashboard's localStorage settings.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Preferences holds the user-facing flags that survive restarts.
// They are orthogonal to weather state.
type Preferences struct {
	DownloadBackgroundOnLoad bool
}

// Store loads preferences once at startup and saves them on every change.
type Store interface {
	Load() (Preferences, error)
	Save(Preferences) error
}

type fileStore struct {
	path string
}

// NewFileStore creates a Store persisting to a YAML file at path.
// The file does not need to exist yet.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Load() (Preferences, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.SetDefault("downloadBackgroundOnLoad", false)

	if err := v.ReadInConfig(); err != nil {
		// A missing file just means defaults.
		var pathErr *fs.PathError
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &pathErr) || errors.As(err, &notFoundErr) || os.IsNotExist(err) {
			return Preferences{}, nil
		}
		return Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	return Preferences{
		DownloadBackgroundOnLoad: v.GetBool("downloadBackgroundOnLoad"),
	}, nil
}

func (s *fileStore) Save(p Preferences) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create preferences directory: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("downloadBackgroundOnLoad", p.DownloadBackgroundOnLoad)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Package file stores each slot key as a JSON file inside a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

// Config holds file driver settings
type Config struct {
	Dir string `yaml:"dir"`
}

func init() {
	storage.MustRegister("file", storage.DriverFunc(func(ctx context.Context, settings storage.Settings) (storage.Slot, error) {
		cfg := Config{Dir: "data"}
		if err := settings.Decode(&cfg); err != nil {
			return nil, err
		}
		return New(cfg.Dir)
	}))
}

// Slot writes one file per key
type Slot struct {
	dir string
}

// New creates the directory if needed and returns a slot rooted at it
func New(dir string) (*Slot, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create slot directory: %w", err)
	}

	log.Debug().Str("dir", dir).Msg("file slot ready")
	return &Slot{dir: dir}, nil
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot file: %w", err)
	}
	return data, nil
}

// Put replaces the file atomically: readers see either the old or the new snapshot
func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace slot file: %w", err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove slot file: %w", err)
	}
	return nil
}

func (s *Slot) Close() error { return nil }

func (s *Slot) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Package filestore persists named string values in a single JSON file under
// the user's state directory. It is the default backend and the closest
// analog of an origin-scoped browser store: one owning process, full
// overwrite on every write.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/medicoin/imaging-client/internal/serviceerr"
	"github.com/medicoin/imaging-client/internal/store"
)

type Store struct {
	path string

	mu sync.Mutex
}

var _ = store.Store(&Store{})

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.load(ctx)
	value, ok := values[key]
	if !ok {
		return "", serviceerr.ErrNotFound
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.load(ctx)
	values[key] = value

	return s.save(values)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.load(ctx)
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	return s.save(values)
}

// load reads the backing file. A missing file means an empty store; an
// unreadable or corrupt file is treated the same way, logged but never
// surfaced, so a damaged store degrades to a fresh one.
func (s *Store) load(ctx context.Context) map[string]string {
	values := map[string]string{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slogctx.Warn(ctx, "Failed to read the state file, starting empty", "path", s.path, "error", err)
		}

		return values
	}

	if err := json.Unmarshal(data, &values); err != nil {
		slogctx.Warn(ctx, "State file is not parseable, starting empty",
			"path", s.path, "error", errors.Join(serviceerr.ErrStorageCorrupt, err))

		return map[string]string{}
	}

	return values
}

// save writes the full value map through a temp file and rename, so a crash
// mid-write never leaves a half-written state file behind.
func (s *Store) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("writing state: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing state file: %w", err)
	}

	return nil
}

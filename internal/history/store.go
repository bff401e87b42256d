// Package history keeps the append-only, client-local record of past
// classification results. Entries are stored verbatim in insertion order and
// are never mutated or removed here.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	"github.com/medicoin/imaging-client/internal/processing"
	"github.com/medicoin/imaging-client/internal/serviceerr"
	"github.com/medicoin/imaging-client/internal/store"
)

type Store struct {
	values store.Store
}

func New(values store.Store) *Store {
	return &Store{values: values}
}

// Append reads the current sequence, appends the result, and writes the
// whole sequence back. A missing or corrupt stored value is treated as an
// empty sequence rather than failing the append.
//
// The read-modify-write is not atomic across processes; see the repository
// design notes for the accepted single-writer limitation.
func (s *Store) Append(ctx context.Context, result processing.ClassificationResult) error {
	results := s.readAll(ctx)
	results = append(results, result)

	encoded, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	if err := s.values.Set(ctx, store.KeyHistory, string(encoded)); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}

	return nil
}

// ReadAll returns the stored sequence, oldest first. Absent or corrupt state
// yields an empty sequence, never an error.
func (s *Store) ReadAll(ctx context.Context) []processing.ClassificationResult {
	return s.readAll(ctx)
}

func (s *Store) readAll(ctx context.Context) []processing.ClassificationResult {
	raw, err := s.values.Get(ctx, store.KeyHistory)
	if err != nil {
		if !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Warn(ctx, "Failed to read history, treating as empty", "error", err)
		}

		return nil
	}

	var results []processing.ClassificationResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		slogctx.Warn(ctx, "Stored history is not parseable, treating as empty",
			"error", errors.Join(serviceerr.ErrStorageCorrupt, err))

		return nil
	}

	return results
}

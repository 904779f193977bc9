// Package resultstore persists backtest and optimization reports as
// JSON documents on a pluggable storage backend.
package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Kind partitions stored runs by the command that produced them.
type Kind string

const (
	KindBacktest     Kind = "backtest"
	KindOptimization Kind = "optimization"
)

// Backend is the byte-level storage a Store writes through.
type Backend interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Store saves and loads run reports keyed by generated run IDs.
type Store struct {
	backend Backend
}

// New creates a Store on the given backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

func runKey(kind Kind, id string) string {
	return path.Join(string(kind)+"s", id+".json")
}

// Save marshals the report and stores it under a fresh run ID, which
// is returned.
func (s *Store) Save(ctx context.Context, kind Kind, report any) (string, error) {
	id := uuid.NewString()
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err := s.backend.Put(ctx, runKey(kind, id), data); err != nil {
		return "", fmt.Errorf("storing report %s: %w", id, err)
	}
	return id, nil
}

// Load reads the report with the given run ID into out.
func (s *Store) Load(ctx context.Context, kind Kind, id string, out any) error {
	data, err := s.backend.Get(ctx, runKey(kind, id))
	if err != nil {
		return fmt.Errorf("reading report %s: %w", id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding report %s: %w", id, err)
	}
	return nil
}

// List returns the run IDs stored for a kind.
func (s *Store) List(ctx context.Context, kind Kind) ([]string, error) {
	keys, err := s.backend.List(ctx, string(kind)+"s")
	if err != nil {
		return nil, fmt.Errorf("listing %s runs: %w", kind, err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(path.Base(k), ".json"))
	}
	return ids, nil
}

// Delete removes the report with the given run ID.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	return s.backend.Delete(ctx, runKey(kind, id))
}

// Exists reports whether a run ID is stored for a kind.
func (s *Store) Exists(ctx context.Context, kind Kind, id string) (bool, error) {
	return s.backend.Exists(ctx, runKey(kind, id))
}

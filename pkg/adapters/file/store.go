package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/weft/pkg/domain"
)

const (
	extension  = ".json"
	tempPrefix = "tmp-"
)

// Store implements ports.RunStore using the local filesystem.
// It stores one indented JSON file per run in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".weft/runs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".weft", "runs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(runID string) string {
	return filepath.Join(s.BasePath, runID+extension)
}

// Save persists the snapshot atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, snapshot *domain.RunSnapshot) error {
	if snapshot == nil || snapshot.RunID == "" {
		return domain.ErrEmptyRunID
	}
	runID := snapshot.RunID

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure run directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Same directory as the destination, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, tempPrefix+runID+"-*"+extension)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(runID)
	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing run file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to run file: %w", err)
	}
	return nil
}

// Load reads the snapshot of a run.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	if runID == "" {
		return nil, domain.ErrEmptyRunID
	}

	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var snap domain.RunSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes the run file.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return domain.ErrEmptyRunID
	}

	err := os.Remove(s.path(runID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	return nil
}

// List returns the ids of stored runs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != extension || strings.HasPrefix(name, tempPrefix) {
			continue
		}
		runs = append(runs, strings.TrimSuffix(name, extension))
	}
	slices.Sort(runs)
	return runs, nil
}

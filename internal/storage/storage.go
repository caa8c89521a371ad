package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

// Storage handles persistence of section snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// snapshotPath returns the path to one subject-term snapshot file
func (s *Storage) snapshotPath(subject, term string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("sections_%s_%s.json",
		strings.ToUpper(subject), section.NormalizeTerm(term)))
}

// LoadSnapshot loads a subject-term snapshot from disk. A missing file
// yields an empty snapshot, not an error.
func (s *Storage) LoadSnapshot(subject, term string) (*section.Snapshot, error) {
	path := s.snapshotPath(subject, term)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return section.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot section.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Sections == nil {
		snapshot.Sections = make(map[string]*section.Record)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a subject-term snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *section.Snapshot, subject, term string) error {
	path := s.snapshotPath(subject, term)

	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromRecords creates and saves a snapshot from parsed records
func (s *Storage) CreateSnapshotFromRecords(records []*section.Record, subject, term string) error {
	snapshot := section.CreateSnapshot(records, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, subject, term)
}

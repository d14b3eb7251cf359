// Package export writes a YAML snapshot of the whole board.
package export

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/duedeck/internal/models"
)

// Version of the snapshot layout
const Version = 1

// Snapshot is everything needed to inspect or rebuild a board
type Snapshot struct {
	Version    int                 `yaml:"version"`
	ExportedAt time.Time           `yaml:"exported_at"`
	Members    []models.TeamMember `yaml:"members"`
	Categories []models.Category   `yaml:"categories"`
	Tasks      []models.Task       `yaml:"tasks"`
}

// Source provides the collections to export
type Source interface {
	Tasks() []models.Task
	Members() []models.TeamMember
	Categories() []models.Category
	Now() time.Time
}

// Build takes a snapshot of src
func Build(src Source) Snapshot {
	return Snapshot{
		Version:    Version,
		ExportedAt: src.Now(),
		Members:    src.Members(),
		Categories: src.Categories(),
		Tasks:      src.Tasks(),
	}
}

// Write encodes snap as YAML to w
func Write(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return enc.Close()
}

// Read decodes a snapshot written by Write
func Read(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != Version {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}

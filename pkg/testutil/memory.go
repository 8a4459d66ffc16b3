package testutil

import (
	"context"
	"sync"

	"github.com/ajitpratap0/synthdata/pkg/models"
)

// MemorySource is a core.Source over fixed records.
type MemorySource struct {
	Dataset *models.Dataset
	Err     error
	Closed  bool
}

// NewMemorySource creates a source whose columns are the union of the record
// keys.
func NewMemorySource(name string, rows ...map[string]any) *MemorySource {
	records := make([]*models.Record, len(rows))
	for i, r := range rows {
		records[i] = models.NewRecord(r)
	}
	return &MemorySource{Dataset: models.NewDataset(name, nil, records)}
}

func (s *MemorySource) Name() string { return "memory" }

func (s *MemorySource) Read(ctx context.Context) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Dataset, nil
}

func (s *MemorySource) Close() error {
	s.Closed = true
	return nil
}

// MemoryDestination is a core.Destination that keeps what it is given.
type MemoryDestination struct {
	mu      sync.Mutex
	Schema  *models.Schema
	Records []*models.Record
	Writes  int
	Err     error
	Closed  bool
}

func (d *MemoryDestination) Name() string { return "memory" }

func (d *MemoryDestination) Write(_ context.Context, schema *models.Schema, records []*models.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Schema = schema
	d.Records = append(d.Records, records...)
	d.Writes++
	return nil
}

func (d *MemoryDestination) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// Package core defines the interfaces every source and destination connector
// implements.
package core

import (
	"context"

	"github.com/ajitpratap0/synthdata/pkg/models"
)

// ConnectorType represents the type of connector
type ConnectorType string

const (
	ConnectorTypeSource      ConnectorType = "source"
	ConnectorTypeDestination ConnectorType = "destination"
)

// Source reads the real records a model is fitted on.
type Source interface {
	// Name returns the registered connector name
	Name() string
	// Read materialises the whole source. Values are raw driver or text
	// values; the schema package coerces them.
	Read(ctx context.Context) (*models.Dataset, error)
	// Close releases connections and files
	Close() error
}

// Destination receives synthetic records. Write may be called many times
// with consecutive batches sharing one schema; the output is complete once
// Close returns.
type Destination interface {
	// Name returns the registered connector name
	Name() string
	// Write appends a batch of records
	Write(ctx context.Context, schema *models.Schema, records []*models.Record) error
	// Close flushes buffered output and releases resources
	Close() error
}

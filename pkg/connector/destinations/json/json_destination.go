// Package json provides the JSON destination connector, writing JSON lines
// or a single JSON array.
package json

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/connector/shared"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/storage"
)

func init() {
	_ = registry.RegisterDestination(registry.ConnectorInfo{
		Name:         "json",
		Description:  "JSON lines or a JSON array (local, stdout, s3://, gs://, compressed)",
		Capabilities: []string{"json_lines", "json_array", "compression", "object_storage"},
	}, NewJSONDestination)
}

// JSONDestination writes one JSON object per record. Dates are written as
// YYYY-MM-DD, datetimes as RFC 3339, durations and ranges as text.
type JSONDestination struct {
	*base.BaseConnector

	cfg     config.DestinationConfig
	storage config.StorageConfig

	out     io.WriteCloser
	encoder *jsonpool.StreamingEncoder
	written int
}

// NewJSONDestination creates a new JSON destination connector
func NewJSONDestination(cfg *config.Config) (core.Destination, error) {
	if cfg.Destination.Path == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "json destination requires path")
	}
	return &JSONDestination{
		BaseConnector: base.NewBaseConnector("json", core.ConnectorTypeDestination),
		cfg:           cfg.Destination,
		storage:       cfg.Storage,
	}, nil
}

// Write appends records to the output.
func (d *JSONDestination) Write(ctx context.Context, schema *models.Schema, records []*models.Record) error {
	return d.Tracer().TraceBatch(ctx, "write", len(records), func(ctx context.Context) error {
		if err := d.open(ctx); err != nil {
			return err
		}
		for _, r := range records {
			if err := d.encoder.Encode(shared.EncodableRecord(schema, r)); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write JSON record")
			}
		}
		d.written += len(records)
		d.RecordWritten(len(records))
		return nil
	})
}

func (d *JSONDestination) open(ctx context.Context) error {
	if d.encoder != nil {
		return nil
	}
	out, err := storage.OpenCompressed(ctx, d.cfg.Path, d.cfg.Compression, d.storage)
	if err != nil {
		return err
	}
	enc, err := jsonpool.NewStreamingEncoder(out, d.cfg.Format == "array")
	if err != nil {
		_ = out.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to start JSON output")
	}
	d.out = out
	d.encoder = enc
	return nil
}

// Close terminates the array, if any, and closes the output
func (d *JSONDestination) Close() error {
	if !d.MarkClosed() || d.out == nil {
		return nil
	}
	err := d.encoder.Close()
	if cerr := d.out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close JSON output")
	}
	d.GetLogger().Info("JSON destination closed",
		zap.String("path", d.cfg.Path),
		zap.String("format", d.cfg.Format),
		zap.Int("records", d.written))
	return nil
}

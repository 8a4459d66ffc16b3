// Package csv provides the CSV destination connector.
package csv

import (
	"context"
	"encoding/csv"
	"io"

	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/storage"
	stringpool "github.com/ajitpratap0/synthdata/pkg/strings"
)

func init() {
	_ = registry.RegisterDestination(registry.ConnectorInfo{
		Name:         "csv",
		Description:  "CSV file with header row (local, stdout, s3://, gs://, compressed)",
		Capabilities: []string{"header", "delimiter", "compression", "object_storage"},
	}, NewCSVDestination)
}

// CSVDestination writes records as delimited text. Nulls are empty cells.
type CSVDestination struct {
	*base.BaseConnector

	cfg     config.DestinationConfig
	storage config.StorageConfig

	out     io.WriteCloser
	writer  *csv.Writer
	headers []string
	row     []string
	written int
}

// NewCSVDestination creates a new CSV destination connector
func NewCSVDestination(cfg *config.Config) (core.Destination, error) {
	if cfg.Destination.Path == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "csv destination requires path")
	}
	return &CSVDestination{
		BaseConnector: base.NewBaseConnector("csv", core.ConnectorTypeDestination),
		cfg:           cfg.Destination,
		storage:       cfg.Storage,
	}, nil
}

// Write appends records; the first call opens the output and writes the
// header.
func (d *CSVDestination) Write(ctx context.Context, schema *models.Schema, records []*models.Record) error {
	return d.Tracer().TraceBatch(ctx, "write", len(records), func(ctx context.Context) error {
		if err := d.open(ctx, schema); err != nil {
			return err
		}
		for _, r := range records {
			for i, h := range d.headers {
				d.row[i] = stringpool.ValueToString(r.Data[h])
			}
			if err := d.writer.Write(d.row); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV row")
			}
		}
		d.writer.Flush()
		if err := d.writer.Error(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV rows")
		}
		d.written += len(records)
		d.RecordWritten(len(records))
		return nil
	})
}

func (d *CSVDestination) open(ctx context.Context, schema *models.Schema) error {
	if d.writer != nil {
		return nil
	}
	out, err := storage.OpenCompressed(ctx, d.cfg.Path, d.cfg.Compression, d.storage)
	if err != nil {
		return err
	}
	d.out = out
	d.writer = csv.NewWriter(out)
	d.writer.Comma = config.DelimiterRune(d.cfg.Delimiter)
	d.headers = schema.FieldNames()
	d.row = make([]string, len(d.headers))

	if d.cfg.WriteHeader {
		if err := d.writer.Write(d.headers); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV header")
		}
	}
	return nil
}

// Close flushes and closes the output
func (d *CSVDestination) Close() error {
	if !d.MarkClosed() || d.out == nil {
		return nil
	}
	d.writer.Flush()
	err := d.writer.Error()
	if cerr := d.out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close CSV output")
	}
	d.GetLogger().Info("CSV destination closed",
		zap.String("path", d.cfg.Path),
		zap.Int("records", d.written))
	return nil
}

// Package avro provides the Avro object container file destination.
package avro

import (
	"context"
	"io"

	"github.com/linkedin/goavro/v2"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/storage"
)

func init() {
	_ = registry.RegisterDestination(registry.ConnectorInfo{
		Name:         "avro",
		Description:  "Avro object container file with logical date and timestamp types",
		Capabilities: []string{"typed", "block_codec", "object_storage"},
	}, NewAvroDestination)
}

var codecs = map[string]string{
	"":        goavro.CompressionNullLabel,
	"null":    goavro.CompressionNullLabel,
	"deflate": goavro.CompressionDeflateLabel,
	"snappy":  goavro.CompressionSnappyLabel,
}

// AvroDestination writes records to an Avro OCF. The writer schema is derived
// from the first schema passed to Write.
type AvroDestination struct {
	*base.BaseConnector

	cfg     config.DestinationConfig
	storage config.StorageConfig

	out     io.WriteCloser
	writer  *goavro.OCFWriter
	schema  *avroSchema
	pending []any
	written int
}

// NewAvroDestination creates a new Avro destination connector
func NewAvroDestination(cfg *config.Config) (core.Destination, error) {
	if cfg.Destination.Path == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "avro destination requires path")
	}
	if _, ok := codecs[cfg.Destination.AvroCodec]; !ok {
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown avro codec %q", cfg.Destination.AvroCodec)
	}
	return &AvroDestination{
		BaseConnector: base.NewBaseConnector("avro", core.ConnectorTypeDestination),
		cfg:           cfg.Destination,
		storage:       cfg.Storage,
	}, nil
}

// Write appends records as one OCF block.
func (d *AvroDestination) Write(ctx context.Context, schema *models.Schema, records []*models.Record) error {
	return d.Tracer().TraceBatch(ctx, "write", len(records), func(ctx context.Context) error {
		if err := d.open(ctx, schema); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		d.pending = d.pending[:0]
		for _, r := range records {
			native, err := d.schema.native(r)
			if err != nil {
				return err
			}
			d.pending = append(d.pending, native)
		}
		if err := d.writer.Append(d.pending); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to append Avro block")
		}
		d.written += len(records)
		d.RecordWritten(len(records))
		return nil
	})
}

func (d *AvroDestination) open(ctx context.Context, schema *models.Schema) error {
	if d.writer != nil {
		return nil
	}
	s, err := buildSchema(schema)
	if err != nil {
		return err
	}
	out, err := storage.OpenCompressed(ctx, d.cfg.Path, d.cfg.Compression, d.storage)
	if err != nil {
		return err
	}
	w, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               out,
		Schema:          s.json,
		CompressionName: codecs[d.cfg.AvroCodec],
	})
	if err != nil {
		_ = out.Close()
		return errors.Wrap(err, errors.ErrorTypeValidation, "failed to create Avro writer").
			WithDetail("schema", s.json)
	}
	d.out, d.writer, d.schema = out, w, s
	d.GetLogger().Debug("Avro writer schema", zap.String("schema", s.json))
	return nil
}

// Close closes the output
func (d *AvroDestination) Close() error {
	if !d.MarkClosed() || d.out == nil {
		return nil
	}
	if err := d.out.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Avro output")
	}
	d.GetLogger().Info("Avro destination closed",
		zap.String("path", d.cfg.Path),
		zap.Int("records", d.written))
	return nil
}

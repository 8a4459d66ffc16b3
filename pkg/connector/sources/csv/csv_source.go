// Package csv provides the CSV source connector. Files may live on local
// disk, in S3 or in GCS and may be compressed.
package csv

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/storage"
)

// ctxCheckInterval is how many rows are read between cancellation checks.
const ctxCheckInterval = 1024

func init() {
	_ = registry.RegisterSource(registry.ConnectorInfo{
		Name:         "csv",
		Description:  "CSV file with optional header row (local, s3://, gs://, compressed)",
		Capabilities: []string{"header", "delimiter", "compression", "object_storage"},
	}, NewCSVSource)
}

// CSVSource reads a delimited text file. Every cell is returned as a string;
// rows shorter than the header leave the trailing columns absent.
type CSVSource struct {
	*base.BaseConnector

	dataset string
	cfg     config.SourceConfig
	storage config.StorageConfig
}

// NewCSVSource creates a new CSV source connector
func NewCSVSource(cfg *config.Config) (core.Source, error) {
	if cfg.Source.Path == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "csv source requires path")
	}
	return &CSVSource{
		BaseConnector: base.NewBaseConnector("csv", core.ConnectorTypeSource),
		dataset:       cfg.Name,
		cfg:           cfg.Source,
		storage:       cfg.Storage,
	}, nil
}

// Read loads the whole file.
func (s *CSVSource) Read(ctx context.Context) (*models.Dataset, error) {
	ctx, span := s.Tracer().StartSpan(ctx, "read")
	defer span.End()

	rc, err := storage.OpenDecompressed(ctx, s.cfg.Path, s.cfg.Compression, s.storage)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rc.Close()

	ds, err := s.parse(ctx, rc)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("records", ds.Len())
	s.RecordRead(ds.Len())
	s.GetLogger().Info("CSV source read",
		zap.String("path", s.cfg.Path),
		zap.Int("records", ds.Len()),
		zap.Int("columns", len(ds.Schema.Fields)))
	return ds, nil
}

func (s *CSVSource) parse(ctx context.Context, r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = config.DelimiterRune(s.cfg.Delimiter)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.ReuseRecord = true

	var headers []string
	if s.cfg.HasHeader {
		row, err := reader.Read()
		if err == io.EOF {
			return models.NewDataset(s.dataset, &models.Schema{Name: s.dataset}, nil), nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV header")
		}
		headers = uniqueHeaders(row)
	}

	var records []*models.Record
	for {
		if len(records)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeInternal, "CSV read cancelled")
			}
		}
		if s.cfg.Limit > 0 && len(records) >= s.cfg.Limit {
			break
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse CSV row").
				WithDetail("row", len(records)+1)
		}

		for len(headers) < len(row) {
			if s.cfg.HasHeader {
				s.GetLogger().Warn("row wider than header", zap.Int("row", len(records)+1))
			}
			headers = append(headers, columnName(len(headers)))
		}

		data := make(map[string]any, len(row))
		for i, cell := range row {
			data[headers[i]] = cell
		}
		records = append(records, models.NewRecord(data))
	}

	schema := &models.Schema{Name: s.dataset, Fields: make([]models.Field, len(headers))}
	for i, h := range headers {
		schema.Fields[i] = models.Field{Name: h, Type: "string"}
	}
	return models.NewDataset(s.dataset, schema, records), nil
}

// Close closes the CSV source connector
func (s *CSVSource) Close() error {
	s.MarkClosed()
	return nil
}

func columnName(i int) string {
	return "column_" + strconv.Itoa(i+1)
}

// uniqueHeaders names blank headers by position and suffixes repeats.
func uniqueHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, h := range row {
		if h == "" {
			h = columnName(i)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = h + "_" + strconv.Itoa(n+1)
		}
		seen[h]++
		headers[i] = h
	}
	return headers
}

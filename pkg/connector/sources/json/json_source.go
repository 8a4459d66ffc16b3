// Package json provides the JSON source connector for line-delimited JSON
// and top-level JSON arrays of objects.
package json

import (
	"bufio"
	"bytes"
	"context"
	"io"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/storage"
)

const maxLineSize = 16 * 1024 * 1024

func init() {
	_ = registry.RegisterSource(registry.ConnectorInfo{
		Name:         "json",
		Description:  "JSON lines or a JSON array of objects (local, s3://, gs://, compressed)",
		Capabilities: []string{"json_lines", "json_array", "compression", "object_storage"},
	}, NewJSONSource)
}

// JSONSource reads objects from a JSON file. Numbers are kept as json.Number
// and nested objects or arrays are flattened to their JSON text.
type JSONSource struct {
	*base.BaseConnector

	dataset string
	cfg     config.SourceConfig
	storage config.StorageConfig
}

// NewJSONSource creates a new JSON source connector
func NewJSONSource(cfg *config.Config) (core.Source, error) {
	if cfg.Source.Path == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "json source requires path")
	}
	return &JSONSource{
		BaseConnector: base.NewBaseConnector("json", core.ConnectorTypeSource),
		dataset:       cfg.Name,
		cfg:           cfg.Source,
		storage:       cfg.Storage,
	}, nil
}

// Read loads every object in the file. The format is detected from the
// first non-space byte.
func (s *JSONSource) Read(ctx context.Context) (*models.Dataset, error) {
	ctx, span := s.Tracer().StartSpan(ctx, "read")
	defer span.End()

	rc, err := storage.OpenDecompressed(ctx, s.cfg.Path, s.cfg.Compression, s.storage)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	first, err := peekNonSpace(br)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read JSON input")
	}

	var records []*models.Record
	format := "lines"
	if first == '[' {
		format = "array"
		records, err = s.readArrayFormat(ctx, br)
	} else {
		records, err = s.readLinesFormat(ctx, br)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ds := models.NewDataset(s.dataset, nil, records)
	span.SetAttribute("records", ds.Len())
	span.SetAttribute("format", format)
	s.RecordRead(ds.Len())
	s.GetLogger().Info("JSON source read",
		zap.String("path", s.cfg.Path),
		zap.String("format", format),
		zap.Int("records", ds.Len()))
	return ds, nil
}

// readArrayFormat reads a top-level array of objects
func (s *JSONSource) readArrayFormat(ctx context.Context, r io.Reader) ([]*models.Record, error) {
	decoder := jsonpool.NewDecoder(r)

	token, err := decoder.Token()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read JSON array start")
	}
	if delim, ok := token.(gojson.Delim); !ok || delim != '[' {
		return nil, errors.New(errors.ErrorTypeData, "expected JSON array")
	}

	var records []*models.Record
	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "JSON read cancelled")
		}
		if s.cfg.Limit > 0 && len(records) >= s.cfg.Limit {
			break
		}
		var obj map[string]any
		if err := decoder.Decode(&obj); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse JSON array element").
				WithDetail("element", len(records))
		}
		records = append(records, toRecord(obj))
	}
	return records, nil
}

// readLinesFormat reads line-delimited JSON format
func (s *JSONSource) readLinesFormat(ctx context.Context, r io.Reader) ([]*models.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []*models.Record
	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "JSON read cancelled")
		}
		if s.cfg.Limit > 0 && len(records) >= s.cfg.Limit {
			break
		}
		lineNum++
		line := scanner.Bytes()

		// Skip empty lines
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var obj map[string]any
		if err := jsonpool.UnmarshalNumbers(line, &obj); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse JSON line").
				WithDetail("line", lineNum)
		}
		records = append(records, toRecord(obj))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to scan JSON lines")
	}
	return records, nil
}

// Close closes the JSON source connector
func (s *JSONSource) Close() error {
	s.MarkClosed()
	return nil
}

func toRecord(obj map[string]any) *models.Record {
	for k, v := range obj {
		switch v.(type) {
		case map[string]any, []any:
			if b, err := jsonpool.Marshal(v); err == nil {
				obj[k] = string(b)
			}
		}
	}
	return models.NewRecord(obj)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !isSpace(b) {
			return b, br.UnreadByte()
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

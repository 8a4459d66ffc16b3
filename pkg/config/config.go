// Package config defines the job configuration for synthdata: where real
// records come from, where synthetic records go, and how the run is observed.
//
// Example usage:
//
//	cfg := config.NewDefault()
//	cfg.Source.Type = "csv"
//	cfg.Source.Path = "people.csv"
//	cfg.Destination.Type = "json"
//	cfg.Destination.Path = "-"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"time"

	"github.com/ajitpratap0/synthdata/pkg/compression"
	"github.com/ajitpratap0/synthdata/pkg/errors"
)

// Config is the configuration of one profile or generate run.
type Config struct {
	// Name identifies the dataset in logs, metrics and the output schema
	Name string `yaml:"name" json:"name"`
	// Seed makes runs reproducible; 0 draws a seed from the clock
	Seed int64 `yaml:"seed" json:"seed"`
	// Rows is the number of synthetic records to generate
	Rows int `yaml:"rows" json:"rows"`

	Source        SourceConfig        `yaml:"source" json:"source"`
	Destination   DestinationConfig   `yaml:"destination" json:"destination"`
	Storage       StorageConfig       `yaml:"storage" json:"storage"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// SourceConfig selects and configures the source connector.
type SourceConfig struct {
	// Type is the registered source name (csv, json, postgresql, mysql, mongodb)
	Type string `yaml:"type" json:"type"`
	// Path is a local path, "-" for stdin, s3://bucket/key or gs://bucket/object
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// DSN is the database connection string or URI
	DSN string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	// Query overrides Table for SQL sources
	Query      string `yaml:"query,omitempty" json:"query,omitempty"`
	Table      string `yaml:"table,omitempty" json:"table,omitempty"`
	Database   string `yaml:"database,omitempty" json:"database,omitempty"`
	Collection string `yaml:"collection,omitempty" json:"collection,omitempty"`
	// HasHeader reports whether the first CSV row names the columns
	HasHeader bool   `yaml:"has_header" json:"has_header"`
	Delimiter string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	// NullValues replaces the default null markers when set
	NullValues []string `yaml:"null_values,omitempty" json:"null_values,omitempty"`
	// Compression overrides detection from the path extension
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty"`
	// Limit caps the records read; 0 reads everything
	Limit   int           `yaml:"limit,omitempty" json:"limit,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// DestinationConfig selects and configures the destination connector.
type DestinationConfig struct {
	// Type is the registered destination name (csv, json, avro, kafka)
	Type string `yaml:"type" json:"type"`
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// Brokers and Topic configure the kafka destination
	Brokers []string `yaml:"brokers,omitempty" json:"brokers,omitempty"`
	Topic   string   `yaml:"topic,omitempty" json:"topic,omitempty"`
	// Compression overrides detection from the path extension
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty"`
	// AvroCodec is the OCF block codec (null, deflate, snappy)
	AvroCodec   string `yaml:"avro_codec,omitempty" json:"avro_codec,omitempty"`
	Delimiter   string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	WriteHeader bool   `yaml:"write_header" json:"write_header"`
	// Format is the JSON layout: lines (default) or array
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// BatchSize is the number of records handed to the destination at once
	BatchSize int `yaml:"batch_size,omitempty" json:"batch_size,omitempty"`
}

// StorageConfig configures object-store access for s3:// and gs:// paths.
type StorageConfig struct {
	S3Region   string `yaml:"s3_region,omitempty" json:"s3_region,omitempty"`
	S3Endpoint string `yaml:"s3_endpoint,omitempty" json:"s3_endpoint,omitempty"`
	// GCSCredentialsFile is a service account key; empty uses default credentials
	GCSCredentialsFile string `yaml:"gcs_credentials_file,omitempty" json:"gcs_credentials_file,omitempty"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogEncoding is json or console
	LogEncoding   string `yaml:"log_encoding" json:"log_encoding"`
	EnableMetrics bool   `yaml:"enable_metrics" json:"enable_metrics"`
	// MetricsAddr serves /metrics when set, e.g. ":9090"
	MetricsAddr   string `yaml:"metrics_addr,omitempty" json:"metrics_addr,omitempty"`
	EnableTracing bool   `yaml:"enable_tracing" json:"enable_tracing"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}

// NewDefault returns a configuration with defaults filled in. Source and
// destination types are left empty.
func NewDefault() *Config {
	return &Config{
		Name: "dataset",
		Rows: 1000,
		Source: SourceConfig{
			HasHeader: true,
			Delimiter: ",",
			Timeout:   30 * time.Second,
		},
		Destination: DestinationConfig{
			Path:        "-",
			AvroCodec:   "null",
			Delimiter:   ",",
			WriteHeader: true,
			BatchSize:   1000,
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogEncoding:       "console",
			EnableMetrics:     true,
			TracingSampleRate: 1.0,
		},
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "name is required")
	}
	if c.Rows < 0 {
		return errors.New(errors.ErrorTypeConfig, "rows cannot be negative")
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Destination.Validate(); err != nil {
		return err
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing_sample_rate must be between 0 and 1")
	}
	return nil
}

// Validate checks the source section.
func (s *SourceConfig) Validate() error {
	if s.Type == "" {
		return errors.New(errors.ErrorTypeConfig, "source.type is required")
	}
	if s.Limit < 0 {
		return errors.New(errors.ErrorTypeConfig, "source.limit cannot be negative")
	}
	if len([]rune(s.Delimiter)) > 1 {
		return errors.New(errors.ErrorTypeConfig, "source.delimiter must be a single character")
	}
	if _, err := compression.ParseAlgorithm(s.Compression); err != nil {
		return err
	}
	return nil
}

// Validate checks the destination section.
func (d *DestinationConfig) Validate() error {
	if d.Type == "" {
		return errors.New(errors.ErrorTypeConfig, "destination.type is required")
	}
	if d.BatchSize < 0 {
		return errors.New(errors.ErrorTypeConfig, "destination.batch_size cannot be negative")
	}
	if len([]rune(d.Delimiter)) > 1 {
		return errors.New(errors.ErrorTypeConfig, "destination.delimiter must be a single character")
	}
	switch d.Format {
	case "", "lines", "array":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported json format: %s", d.Format)
	}
	switch d.AvroCodec {
	case "", "null", "deflate", "snappy":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported avro codec: %s", d.AvroCodec)
	}
	if _, err := compression.ParseAlgorithm(d.Compression); err != nil {
		return err
	}
	return nil
}

// GetBatchSize returns the destination batch size, at least 1.
func (d *DestinationConfig) GetBatchSize() int {
	if d.BatchSize <= 0 {
		return 1000
	}
	return d.BatchSize
}

// DelimiterRune returns the first rune of delimiter, or ','.
func DelimiterRune(delimiter string) rune {
	for _, r := range delimiter {
		return r
	}
	return ','
}

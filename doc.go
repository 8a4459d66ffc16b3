// Package synthdata generates synthetic tabular data that follows the value
// distributions of a real dataset.
//
// Each column of the input is classified into one of a closed set of value
// shapes (integer, string, date, datetime, duration, datetime range, or
// missing) and fitted with a model for that shape. Sampling every column
// model independently yields synthetic records with the same schema and
// marginal distributions as the original.
//
// # Architecture
//
//  1. Sources read a table (CSV, JSON, PostgreSQL, MySQL, MongoDB) into
//     memory. Files may live locally, on S3 or on GCS, optionally compressed.
//
//  2. The schema package coerces raw values into the supported shapes.
//
//  3. The synth package fits one model per column: frequency tables for
//     integers, character transition chains for strings, and composite
//     models for dates, datetimes, durations and ranges. Columns with missing
//     values are wrapped in a nullable model.
//
//  4. Destinations write the generated records as CSV, JSON, Avro or Kafka
//     messages.
//
// # Quick Start
//
//	synthdata generate --source-type csv --source-path people.csv \
//	    --dest-type json --dest-path synthetic.jsonl --rows 10000 --seed 42
//
// From Go:
//
//	model, err := synth.Build(values, synth.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	v := model.Sample()
//
// # Key Packages
//
//	pkg/synth        - Column models and the type dispatcher
//	pkg/schema       - Shape inference and value coercion
//	pkg/connector    - Sources and destinations
//	pkg/storage      - Local, stdio, S3 and GCS objects
//	pkg/compression  - Stream codecs selected by name or extension
//	pkg/config       - YAML configuration with ${VAR} substitution
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus metrics
//	internal/pipeline - Read, fit, generate and write
//
// # Configuration
//
// The CLI reads a YAML file (--config), SYNTHDATA_* environment variables and
// flags, in increasing order of precedence. Environment variables are
// substituted in the file with ${VAR_NAME} syntax.
package synthdata

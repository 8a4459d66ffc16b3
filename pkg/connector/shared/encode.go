package shared

import (
	"time"

	"github.com/ajitpratap0/synthdata/pkg/models"
	stringpool "github.com/ajitpratap0/synthdata/pkg/strings"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

// EncodableValue converts a synthetic value into a form JSON encoders render
// the way the schema package parses it back: durations and ranges as text,
// datetimes in RFC 3339 with microseconds.
func EncodableValue(v any) any {
	switch x := v.(type) {
	case time.Duration:
		return x.String()
	case synth.Range:
		return x.String()
	case time.Time:
		return x.Format(stringpool.DatetimeLayout)
	}
	return v
}

// EncodableRecord returns the record's values for the schema's fields, with
// missing fields as null.
func EncodableRecord(schema *models.Schema, r *models.Record) map[string]any {
	out := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		out[f.Name] = EncodableValue(r.Data[f.Name])
	}
	return out
}

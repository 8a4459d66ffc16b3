package avro

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/synthdata/pkg/errors"
	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

// column is one record field with its Avro name, type and union branch.
type column struct {
	source   string
	name     string
	kind     synth.Kind
	nullable bool
	branch   string
}

// avroSchema is the Avro record schema derived from a models.Schema.
type avroSchema struct {
	json    string
	columns []column
}

// buildSchema maps each field's shape to an Avro type. Dates use the date
// logical type, datetimes timestamp-micros, durations a long of microseconds
// and ranges a nested record of two timestamps. Nullable fields become
// unions with null.
func buildSchema(s *models.Schema) (*avroSchema, error) {
	recordName := avroName(s.Name, "record")
	used := make(map[string]bool)
	fields := make([]map[string]any, 0, len(s.Fields))
	out := &avroSchema{}

	for _, f := range s.Fields {
		kind, ok := synth.ParseKind(f.Type)
		if !ok {
			kind = synth.KindString
		}
		if kind == synth.KindEmpty {
			kind = synth.KindNull
		}

		name := avroName(f.Name, "field")
		for n, base := 2, name; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true

		col := column{source: f.Name, name: name, kind: kind, nullable: f.Nullable && kind != synth.KindNull}
		var typ any
		switch kind {
		case synth.KindNull:
			typ = "null"
		case synth.KindInteger:
			typ, col.branch = "long", "long"
		case synth.KindDate:
			typ, col.branch = map[string]any{"type": "int", "logicalType": "date"}, "int.date"
		case synth.KindDatetime:
			typ, col.branch = timestampType(), "long.timestamp-micros"
		case synth.KindDuration:
			typ, col.branch = "long", "long"
		case synth.KindDatetimeRange:
			rangeName := name + "_range"
			typ = map[string]any{
				"type": "record",
				"name": rangeName,
				"fields": []map[string]any{
					{"name": "start", "type": timestampType()},
					{"name": "end", "type": timestampType()},
				},
			}
			col.branch = rangeName
		default:
			typ, col.branch = "string", "string"
		}

		field := map[string]any{"name": name, "type": typ}
		if col.nullable {
			field["type"] = []any{"null", typ}
			field["default"] = nil
		}
		if name != f.Name {
			field["doc"] = "source column: " + f.Name
		}
		fields = append(fields, field)
		out.columns = append(out.columns, col)
	}

	b, err := jsonpool.Marshal(map[string]any{
		"type":   "record",
		"name":   recordName,
		"fields": fields,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode Avro schema")
	}
	out.json = string(b)
	return out, nil
}

func timestampType() map[string]any {
	return map[string]any{"type": "long", "logicalType": "timestamp-micros"}
}

// native converts a record to goavro's native form.
func (s *avroSchema) native(r *models.Record) (map[string]any, error) {
	out := make(map[string]any, len(s.columns))
	for _, col := range s.columns {
		v := r.Data[col.source]
		if v == nil || col.kind == synth.KindNull {
			out[col.name] = nil
			continue
		}
		nv, err := nativeValue(col.kind, v)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to convert value for Avro").
				WithDetail("field", col.source)
		}
		if col.nullable {
			nv = goavro.Union(col.branch, nv)
		}
		out[col.name] = nv
	}
	return out, nil
}

func nativeValue(kind synth.Kind, v any) (any, error) {
	switch kind {
	case synth.KindInteger:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int8:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case uint8:
			return int64(n), nil
		case uint16:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		}
	case synth.KindDate:
		if d, ok := v.(civil.Date); ok {
			return d.In(time.UTC), nil
		}
	case synth.KindDatetime:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	case synth.KindDuration:
		if d, ok := v.(time.Duration); ok {
			return d.Microseconds(), nil
		}
	case synth.KindDatetimeRange:
		if rg, ok := v.(synth.Range); ok {
			return map[string]any{"start": rg.Start, "end": rg.End}, nil
		}
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, errors.Newf(errors.ErrorTypeData, "value %v (%T) does not match %s", v, v, kind)
}

// avroName makes name a valid Avro name: [A-Za-z_][A-Za-z0-9_]*.
func avroName(name, fallback string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// Package schema converts raw source columns into the closed set of value
// shapes the synth package models, and infers a schema from the result.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	"github.com/ajitpratap0/synthdata/pkg/models"
	stringpool "github.com/ajitpratap0/synthdata/pkg/strings"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

// DefaultNullValues are the strings read as missing values.
var DefaultNullValues = []string{"", "NULL", "null", `\N`}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// candidateKinds are tried in order; the first kind every value converts to
// wins. Strings accept everything.
var candidateKinds = []synth.Kind{
	synth.KindInteger,
	synth.KindDate,
	synth.KindDatetime,
	synth.KindDatetimeRange,
	synth.KindDuration,
}

// Column is a converted column.
type Column struct {
	Name     string
	Kind     synth.Kind
	Values   []any
	Nulls    int
	Format   string
	Distinct int
}

// Nullable reports whether the column has missing values.
func (c Column) Nullable() bool { return c.Nulls > 0 }

// TypeInferenceEngine decides the shape of raw columns and converts their
// values.
type TypeInferenceEngine struct {
	logger     *zap.Logger
	nullValues map[string]struct{}
	location   *time.Location

	emailPattern *regexp.Regexp
	urlPattern   *regexp.Regexp
	uuidPattern  *regexp.Regexp
}

// NewTypeInferenceEngine creates an engine. nullValues replaces
// DefaultNullValues when non-empty.
func NewTypeInferenceEngine(logger *zap.Logger, nullValues []string) *TypeInferenceEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(nullValues) == 0 {
		nullValues = DefaultNullValues
	}
	e := &TypeInferenceEngine{
		logger:     logger,
		nullValues: make(map[string]struct{}, len(nullValues)),
		location:   time.UTC,
	}
	for _, v := range nullValues {
		e.nullValues[v] = struct{}{}
	}
	e.initializePatterns()
	return e
}

// SetLocation sets the location used for datetimes without a zone offset.
func (e *TypeInferenceEngine) SetLocation(loc *time.Location) {
	if loc != nil {
		e.location = loc
	}
}

// Coerce converts a raw column. Values are normalised first (null markers to
// nil, byte slices and JSON numbers to text, driver types to their shape), then
// the column takes the first candidate kind that accepts every non-null
// value, falling back to string.
func (e *TypeInferenceEngine) Coerce(name string, raw []any) Column {
	col := Column{Name: name, Values: make([]any, len(raw))}

	present := 0
	for i, v := range raw {
		n := e.normalize(v)
		if n == nil {
			col.Nulls++
		} else {
			present++
		}
		col.Values[i] = n
	}

	if present == 0 {
		col.Kind = synth.KindNull
		return col
	}

	col.Kind = synth.KindString
	for _, kind := range candidateKinds {
		converted, ok := e.convertAll(kind, col.Values)
		if ok {
			col.Kind = kind
			col.Values = converted
			break
		}
	}
	if col.Kind == synth.KindString {
		for i, v := range col.Values {
			if v != nil {
				col.Values[i] = stringpool.ValueToString(v)
			}
		}
		col.Format = e.detectStringFormat(col.Values)
	}
	col.Distinct = distinct(col.Values)

	e.logger.Debug("coerced column",
		zap.String("column", name),
		zap.Stringer("kind", col.Kind),
		zap.Int("nulls", col.Nulls),
		zap.Int("distinct", col.Distinct))
	return col
}

// CoerceDataset converts every column of ds in place and returns the inferred
// schema, in the dataset's column order.
func (e *TypeInferenceEngine) CoerceDataset(ds *models.Dataset) *models.Schema {
	schema := &models.Schema{Name: ds.Schema.Name}
	for _, field := range ds.Schema.Fields {
		col := e.Coerce(field.Name, ds.Column(field.Name))
		ds.SetColumn(field.Name, col.Values)
		schema.Fields = append(schema.Fields, col.Field())
	}
	ds.Schema = schema
	return schema
}

// Field describes the column as a schema field.
func (c Column) Field() models.Field {
	f := models.Field{
		Name:     c.Name,
		Type:     c.Kind.String(),
		Nullable: c.Nullable(),
	}
	if c.Format != "" {
		f.Description = "format: " + c.Format
	}
	return f
}

// normalize maps a raw value to nil, a supported shape, or text.
func (e *TypeInferenceEngine) normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if _, isNull := e.nullValues[x]; isNull {
			return nil
		}
		return x
	case []byte:
		return e.normalize(string(x))
	case jsonpool.Number:
		return x.String()
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return v
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x)
		}
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case civil.Date, time.Time, civil.DateTime, time.Duration, synth.Range:
		return v
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (e *TypeInferenceEngine) convertAll(kind synth.Kind, values []any) ([]any, bool) {
	out := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		c, ok := e.convert(kind, v)
		if !ok {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

func (e *TypeInferenceEngine) convert(kind synth.Kind, v any) (any, bool) {
	s, isText := v.(string)
	if !isText {
		if synth.ShapeOf(v).Kind == kind {
			return v, true
		}
		return nil, false
	}

	s = strings.TrimSpace(s)
	switch kind {
	case synth.KindInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	case synth.KindDate:
		return parseDate(s)
	case synth.KindDatetime:
		return e.parseDatetime(s)
	case synth.KindDatetimeRange:
		start, end, found := strings.Cut(s, "/")
		if !found {
			return nil, false
		}
		st, ok := e.parseDatetime(start)
		if !ok {
			return nil, false
		}
		en, ok := e.parseDatetime(end)
		if !ok {
			return nil, false
		}
		return synth.Range{Start: st, End: en}, true
	case synth.KindDuration:
		d, err := time.ParseDuration(s)
		return d, err == nil
	}
	return nil, false
}

func parseDate(s string) (any, bool) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

func (e *TypeInferenceEngine) parseDatetime(s string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, e.location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// initializePatterns initializes regex patterns for format detection
func (e *TypeInferenceEngine) initializePatterns() {
	e.emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	e.urlPattern = regexp.MustCompile(`^https?://[^\s]+$`)
	e.uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
}

// detectStringFormat returns the format shared by at least 80% of the
// strings, or "".
func (e *TypeInferenceEngine) detectStringFormat(values []any) string {
	counts := make(map[string]int)
	total := 0
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		total++
		switch {
		case e.emailPattern.MatchString(s):
			counts["email"]++
		case e.urlPattern.MatchString(s):
			counts["url"]++
		case e.uuidPattern.MatchString(s):
			counts["uuid"]++
		}
	}

	threshold := int(float64(total) * 0.8)
	for _, format := range []string{"email", "url", "uuid"} {
		if counts[format] > 0 && counts[format] >= threshold {
			return format
		}
	}
	return ""
}

func distinct(values []any) int {
	seen := make(map[any]struct{})
	for _, v := range values {
		if v == nil {
			continue
		}
		if t, ok := v.(time.Time); ok {
			seen[t.UnixNano()] = struct{}{}
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

package synth

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Kind enumerates the model variants. Every supported shape maps to exactly
// one Kind; KindEmpty and KindUnsupported are never produced by a fit of
// non-empty data.
type Kind int

const (
	KindUnsupported Kind = iota
	KindEmpty
	KindNull
	KindInteger
	KindString
	KindDate
	KindDatetime
	KindDuration
	KindDatetimeRange
)

var kindNames = map[Kind]string{
	KindUnsupported:   "unsupported",
	KindEmpty:         "empty",
	KindNull:          "null",
	KindInteger:       "integer",
	KindString:        "string",
	KindDate:          "date",
	KindDatetime:      "datetime",
	KindDuration:      "duration",
	KindDatetimeRange: "datetime_range",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindUnsupported, false
}

// Shape is the inferred type signature of a single element. Supported shapes
// carry their Kind; unsupported ones keep a description of the Go type so the
// dispatcher can report what it refused.
type Shape struct {
	Kind Kind
	Desc string
}

func (s Shape) String() string {
	return s.Desc
}

// Supported reports whether a model exists for the shape.
func (s Shape) Supported() bool {
	return s.Kind != KindUnsupported
}

func kindShape(k Kind) Shape {
	return Shape{Kind: k, Desc: k.String()}
}

// Range is a pair of datetimes. Its natural ordering is by start, then end.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Delta returns End - Start, saturating at the time.Duration limits for
// ranges longer than about 292 years.
func (r Range) Delta() time.Duration {
	return r.End.Sub(r.Start)
}

// Compare orders ranges by start, then end.
func (r Range) Compare(o Range) int {
	if c := r.Start.Compare(o.Start); c != 0 {
		return c
	}
	return r.End.Compare(o.End)
}

// String renders the range as an ISO 8601 interval.
func (r Range) String() string {
	return r.Start.Format(time.RFC3339Nano) + "/" + r.End.Format(time.RFC3339Nano)
}

// ShapeOf classifies a single value. Lists are always unsupported; pairs are
// supported only when both members are datetimes.
func ShapeOf(v any) Shape {
	switch x := v.(type) {
	case nil:
		return kindShape(KindNull)
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return kindShape(KindInteger)
	case string:
		return kindShape(KindString)
	case civil.Date:
		return kindShape(KindDate)
	case time.Time, civil.DateTime:
		return kindShape(KindDatetime)
	case time.Duration:
		return kindShape(KindDuration)
	case Range, [2]time.Time:
		return kindShape(KindDatetimeRange)
	case [2]any:
		first, second := ShapeOf(x[0]), ShapeOf(x[1])
		if first.Kind == KindDatetime && second.Kind == KindDatetime {
			return kindShape(KindDatetimeRange)
		}
		return Shape{Kind: KindUnsupported, Desc: "pair(" + first.Desc + ", " + second.Desc + ")"}
	default:
		return Shape{Kind: KindUnsupported, Desc: fmt.Sprintf("%T", v)}
	}
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func toDatetime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case civil.DateTime:
		return x.In(time.UTC), true
	}
	return time.Time{}, false
}

func toRange(v any) (Range, bool) {
	switch x := v.(type) {
	case Range:
		return x, true
	case [2]time.Time:
		return Range{Start: x[0], End: x[1]}, true
	case [2]any:
		start, ok := toDatetime(x[0])
		if !ok {
			return Range{}, false
		}
		end, ok := toDatetime(x[1])
		if !ok {
			return Range{}, false
		}
		return Range{Start: start, End: end}, true
	}
	return Range{}, false
}

package synth

import (
	"iter"
	"maps"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/errors"
)

// Build classifies data and fits the matching model.
//
//   - no elements: Empty
//   - only nil: a degenerate NullableModel of KindNull
//   - nil plus one supported shape: a NullableModel of that shape
//   - one supported shape: that shape's model
//
// Any other shape set fails with ErrorTypeUnsupportedShape.
func Build(data []any, opts ...Option) (Model, error) {
	s := newSettings(opts)
	if len(data) == 0 {
		s.logger.Debug("selected model", zap.Stringer("kind", KindEmpty))
		return Empty{}, nil
	}

	shapes := make(map[string]Shape)
	for _, v := range data {
		sh := ShapeOf(v)
		shapes[sh.Desc] = sh
	}
	_, nullable := shapes[KindNull.String()]
	delete(shapes, KindNull.String())

	switch {
	case len(shapes) == 0:
		s.logger.Debug("selected model",
			zap.Stringer("kind", KindNull),
			zap.Int("count", len(data)),
			zap.Bool("nullable", true))
		return nullableModel(KindNull, data, s)

	case len(shapes) == 1:
		var only Shape
		for _, sh := range shapes {
			only = sh
		}
		if !only.Supported() {
			break
		}
		s.logger.Debug("selected model",
			zap.Stringer("kind", only.Kind),
			zap.Int("count", len(data)),
			zap.Bool("nullable", nullable))
		if nullable {
			return nullableModel(only.Kind, data, s)
		}
		return fitKind(only.Kind, data, s)
	}

	descs := slices.Sorted(maps.Keys(shapes))
	if nullable {
		descs = append([]string{KindNull.String()}, descs...)
	}
	return nil, errors.Newf(errors.ErrorTypeUnsupportedShape,
		"unsupported shape set {%s}", strings.Join(descs, ", ")).
		WithDetail("shapes", descs)
}

// BuildSeq materialises seq and builds a model from it.
func BuildSeq(seq iter.Seq[any], opts ...Option) (Model, error) {
	return Build(slices.Collect(seq), opts...)
}

// fitKind fits the model of a single supported kind over non-nil data.
func fitKind(kind Kind, data []any, s *settings) (Model, error) {
	switch kind {
	case KindInteger:
		return erase[int64](fitIntModel(data, s))
	case KindString:
		return erase[string](fitStringModel(data, s))
	case KindDate:
		return erase[civil.Date](fitDateModel(data, s))
	case KindDatetime:
		return erase[time.Time](fitDatetimeModel(data, s))
	case KindDuration:
		return erase[time.Duration](fitDurationModel(data, s))
	case KindDatetimeRange:
		return erase[Range](fitDatetimeRangeModel(data, s))
	case KindNull, KindEmpty, KindUnsupported:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedShape, "no model fits %s values", kind).
			WithDetail("kind", kind.String())
	}
	return nil, errors.Newf(errors.ErrorTypeInternal, "unknown kind %d", int(kind))
}

func nullableModel(kind Kind, data []any, s *settings) (Model, error) {
	m, err := fitNullableModel(kind, data, s)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func erase[T any](m Typed[T], err error) (Model, error) {
	if err != nil {
		return nil, err
	}
	return AsModel[T](m), nil
}

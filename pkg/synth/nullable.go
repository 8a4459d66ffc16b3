package synth

import (
	"fmt"

	"github.com/ajitpratap0/synthdata/pkg/errors"
	stringpool "github.com/ajitpratap0/synthdata/pkg/strings"
)

// NullableModel wraps a model of one kind with the empirical probability of a
// missing value.
//
// When every fitted value was nil there is no inner model. The missing
// probability is then 1, Sample always returns nil and Inner reports
// ErrorTypeDegenerateModel.
type NullableModel struct {
	kind  Kind
	count int
	nulls int
	pNull float64
	inner Model
	rng   *Rand
}

// NewNullableModel fits the missing probability over all of data and the
// inner model of the given kind over the non-nil elements.
func NewNullableModel(kind Kind, data []any, opts ...Option) (*NullableModel, error) {
	return fitNullableModel(kind, data, newSettings(opts))
}

func fitNullableModel(kind Kind, data []any, s *settings) (*NullableModel, error) {
	if len(data) == 0 {
		return nil, emptyInput(kind)
	}
	present := make([]any, 0, len(data))
	positions := make([]int, 0, len(data))
	for i, v := range data {
		if v != nil {
			present = append(present, v)
			positions = append(positions, i)
		}
	}

	m := &NullableModel{
		kind:  kind,
		count: len(data),
		nulls: len(data) - len(present),
		rng:   s.rng,
	}
	m.pNull = float64(m.nulls) / float64(m.count)
	if len(present) == 0 {
		return m, nil
	}

	inner, err := fitKind(kind, present, s)
	if err != nil {
		// Report mismatches at their position in data, not among the non-nil values.
		if idx, ok := errors.Detail(err, "index"); ok && errors.IsType(err, errors.ErrorTypeTypeMismatch) {
			if i, ok := idx.(int); ok && i >= 0 && i < len(positions) {
				return nil, typeMismatch(kind, positions[i], present[i])
			}
		}
		return nil, err
	}
	m.inner = inner
	return m, nil
}

// Kind returns the wrapped kind.
func (m *NullableModel) Kind() Kind { return m.kind }

// Count includes the nil observations.
func (m *NullableModel) Count() int { return m.count }

// Nulls returns the number of nil observations.
func (m *NullableModel) Nulls() int { return m.nulls }

// NullProbability is nulls / count.
func (m *NullableModel) NullProbability() float64 { return m.pNull }

// Inner returns the model fit over the non-nil values.
func (m *NullableModel) Inner() (Model, error) {
	if m.inner == nil {
		return nil, errors.Newf(errors.ErrorTypeDegenerateModel,
			"nullable %s model has no inner model: all %d values were null", m.kind, m.count).
			WithDetail("kind", m.kind.String()).
			WithDetail("count", m.count)
	}
	return m.inner, nil
}

func (m *NullableModel) Min() any {
	if m.inner == nil {
		return nil
	}
	return m.inner.Min()
}

func (m *NullableModel) Max() any {
	if m.inner == nil {
		return nil
	}
	return m.inner.Max()
}

// Sample returns nil with the fitted missing probability and an inner sample
// otherwise.
func (m *NullableModel) Sample() any {
	if m.inner == nil {
		return nil
	}
	if m.rng.Float64() < m.pNull {
		return nil
	}
	return m.inner.Sample()
}

func (m *NullableModel) String() string {
	return fmt.Sprintf("<NullableModel kind=%s count=%d null=%.4f min=%s max=%s>",
		m.kind, m.count, m.pNull,
		stringpool.ValueToString(m.Min()), stringpool.ValueToString(m.Max()))
}

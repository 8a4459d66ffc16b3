package synth

import (
	"fmt"

	"github.com/ajitpratap0/synthdata/pkg/errors"
)

// IntModel draws integers with the observed frequencies.
type IntModel struct {
	freq *Frequency[int64]
}

// NewIntModel fits an IntModel. Every element must be a signed integer or a
// uint8/16/32.
func NewIntModel(data []any, opts ...Option) (*IntModel, error) {
	return fitIntModel(data, newSettings(opts))
}

func fitIntModel(data []any, s *settings) (*IntModel, error) {
	if len(data) == 0 {
		return nil, emptyInput(KindInteger)
	}
	values := make([]int64, len(data))
	for i, v := range data {
		n, ok := toInt(v)
		if !ok {
			return nil, typeMismatch(KindInteger, i, v)
		}
		values[i] = n
	}
	return &IntModel{freq: fitFrequency(values, s.rng)}, nil
}

func (m *IntModel) Kind() Kind    { return KindInteger }
func (m *IntModel) Count() int    { return m.freq.Count() }
func (m *IntModel) Min() int64    { return m.freq.Min() }
func (m *IntModel) Max() int64    { return m.freq.Max() }
func (m *IntModel) Sample() int64 { return m.freq.Sample() }

// Frequency returns the underlying value distribution.
func (m *IntModel) Frequency() *Frequency[int64] { return m.freq }

func (m *IntModel) String() string {
	return fmt.Sprintf("<IntModel count=%d min=%d max=%d>", m.Count(), m.Min(), m.Max())
}

func (m *IntModel) fieldDistinct() map[string]int {
	return map[string]int{"value": m.freq.Distinct()}
}

func typeMismatch(expected Kind, index int, v any) *errors.Error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "element %d: expected %s, got %v (%T)", index, expected, v, v).
		WithDetail("expected", expected.String()).
		WithDetail("index", index).
		WithDetail("actual", ShapeOf(v).String())
}

func emptyInput(k Kind) *errors.Error {
	return errors.Newf(errors.ErrorTypeEmptyInput, "cannot fit %s model without values", k).
		WithDetail("kind", k.String())
}

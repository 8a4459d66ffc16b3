package synth

import (
	stringpool "github.com/ajitpratap0/synthdata/pkg/strings"
)

// Model is the capability every fitted variant shares. Fitted models are
// immutable; Sample never fails and may be called concurrently.
type Model interface {
	// Kind identifies the variant, or the wrapped kind for nullable models.
	Kind() Kind
	// Count is the number of observations the model was fit from, nulls included.
	Count() int
	// Min and Max use the natural ordering of the kind; nil when undefined.
	Min() any
	Max() any
	// Sample draws one synthetic value; nil stands for a missing value.
	Sample() any
	String() string
}

// Typed is implemented by the concrete models, whose accessors return their
// own value type instead of any.
type Typed[T any] interface {
	Kind() Kind
	Count() int
	Min() T
	Max() T
	Sample() T
	String() string
}

type erased[T any] struct {
	m Typed[T]
}

// AsModel exposes a typed model through the Model interface.
func AsModel[T any](m Typed[T]) Model {
	return erased[T]{m: m}
}

func (e erased[T]) Kind() Kind      { return e.m.Kind() }
func (e erased[T]) Count() int      { return e.m.Count() }
func (e erased[T]) Min() any        { return e.m.Min() }
func (e erased[T]) Max() any        { return e.m.Max() }
func (e erased[T]) Sample() any     { return e.m.Sample() }
func (e erased[T]) String() string  { return e.m.String() }
func (e erased[T]) underlying() any { return e.m }

// As returns the concrete model behind m, e.g. As[*DateModel](m).
func As[M any](m Model) (M, bool) {
	if u, ok := m.(interface{ underlying() any }); ok {
		typed, ok := u.underlying().(M)
		return typed, ok
	}
	typed, ok := m.(M)
	return typed, ok
}

// Empty is the model of a collection with no elements.
type Empty struct{}

func (Empty) Kind() Kind     { return KindEmpty }
func (Empty) Count() int     { return 0 }
func (Empty) Min() any       { return nil }
func (Empty) Max() any       { return nil }
func (Empty) Sample() any    { return nil }
func (Empty) String() string { return "<Empty>" }

// fieldCounter is implemented by models that can report the number of
// distinct values each of their fields was fit with.
type fieldCounter interface {
	fieldDistinct() map[string]int
}

// Summary is a human and machine readable description of a fitted model.
type Summary struct {
	Kind            string         `json:"kind" yaml:"kind"`
	Count           int            `json:"count" yaml:"count"`
	Min             string         `json:"min,omitempty" yaml:"min,omitempty"`
	Max             string         `json:"max,omitempty" yaml:"max,omitempty"`
	Nullable        bool           `json:"nullable" yaml:"nullable"`
	NullProbability float64        `json:"null_probability,omitempty" yaml:"null_probability,omitempty"`
	Fields          map[string]int `json:"distinct_per_field,omitempty" yaml:"distinct_per_field,omitempty"`
}

// Describe summarises m.
func Describe(m Model) Summary {
	s := Summary{
		Kind:  m.Kind().String(),
		Count: m.Count(),
		Min:   stringpool.ValueToString(m.Min()),
		Max:   stringpool.ValueToString(m.Max()),
	}

	inner := m
	if n, ok := m.(*NullableModel); ok {
		s.Nullable = true
		s.NullProbability = n.NullProbability()
		inner = n.inner
	}
	if inner == nil {
		return s
	}
	if fc, ok := As[fieldCounter](inner); ok {
		s.Fields = fc.fieldDistinct()
	}
	return s
}

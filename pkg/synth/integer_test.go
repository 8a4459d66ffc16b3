package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/synthdata/pkg/errors"
)

func TestNewIntModel(t *testing.T) {
	m, err := NewIntModel([]any{int8(-3), 10, uint16(7), int64(10)}, WithSeed(1))
	require.NoError(t, err)

	assert.Equal(t, KindInteger, m.Kind())
	assert.Equal(t, 4, m.Count())
	assert.Equal(t, int64(-3), m.Min())
	assert.Equal(t, int64(10), m.Max())
	assert.Equal(t, []int64{-3, 7, 10}, m.Frequency().Keys())
	assert.Equal(t, "<IntModel count=4 min=-3 max=10>", m.String())
}

func TestIntModel_SupportIsClosed(t *testing.T) {
	data := []any{1, 1, 2, 3, 5, 8, 13, 21}
	m, err := NewIntModel(data, WithSeed(99))
	require.NoError(t, err)

	allowed := map[int64]bool{1: true, 2: true, 3: true, 5: true, 8: true, 13: true, 21: true}
	for range 1000 {
		v := m.Sample()
		assert.True(t, allowed[v], "sampled %d outside the fitted values", v)
	}
}

func TestNewIntModel_TypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		data  []any
		index int
	}{
		{"string", []any{1, "2"}, 1},
		{"uint64", []any{uint64(1)}, 0},
		{"float", []any{1, 2, 3.5}, 2},
		{"nil", []any{nil}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewIntModel(tt.data)
			assert.Nil(t, m)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
			index, ok := errors.Detail(err, "index")
			require.True(t, ok)
			assert.Equal(t, tt.index, index)
			assert.Contains(t, err.Error(), "expected integer")
		})
	}
}

func TestNewIntModel_Empty(t *testing.T) {
	_, err := NewIntModel(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyInput))
}

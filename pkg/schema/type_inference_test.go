package schema

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

func TestCoerce_Kinds(t *testing.T) {
	utc := func(y int, m time.Month, d, h, mi, s int) time.Time { return time.Date(y, m, d, h, mi, s, 0, time.UTC) }

	tests := []struct {
		name   string
		raw    []any
		kind   synth.Kind
		values []any
		nulls  int
	}{
		{
			name:   "integers from text",
			raw:    []any{"1", " 42 ", "-7"},
			kind:   synth.KindInteger,
			values: []any{int64(1), int64(42), int64(-7)},
		},
		{
			name:   "integers with nulls",
			raw:    []any{"1", "", "NULL", nil, `\N`},
			kind:   synth.KindInteger,
			values: []any{int64(1), nil, nil, nil, nil},
			nulls:  4,
		},
		{
			name:   "json numbers",
			raw:    []any{jsonpool.Number("3"), jsonpool.Number("9007199254740993")},
			kind:   synth.KindInteger,
			values: []any{int64(3), int64(9007199254740993)},
		},
		{
			name:   "typed integers kept",
			raw:    []any{int32(5), int64(6)},
			kind:   synth.KindInteger,
			values: []any{int32(5), int64(6)},
		},
		{
			name:   "dates",
			raw:    []any{"2000-01-01", "2015-06-20"},
			kind:   synth.KindDate,
			values: []any{civil.Date{Year: 2000, Month: 1, Day: 1}, civil.Date{Year: 2015, Month: 6, Day: 20}},
		},
		{
			name:   "datetimes in several layouts",
			raw:    []any{"2021-03-01T10:00:00Z", "2021-03-01 11:30:00", []byte("2021-03-01T12:00:00")},
			kind:   synth.KindDatetime,
			values: []any{utc(2021, 3, 1, 10, 0, 0), utc(2021, 3, 1, 11, 30, 0), utc(2021, 3, 1, 12, 0, 0)},
		},
		{
			name:   "ranges",
			raw:    []any{"2021-03-01T10:00:00Z/2021-03-01T11:00:00Z"},
			kind:   synth.KindDatetimeRange,
			values: []any{synth.Range{Start: utc(2021, 3, 1, 10, 0, 0), End: utc(2021, 3, 1, 11, 0, 0)}},
		},
		{
			name:   "durations",
			raw:    []any{"1h30m", "45s", time.Minute},
			kind:   synth.KindDuration,
			values: []any{90 * time.Minute, 45 * time.Second, time.Minute},
		},
		{
			name:   "floats stay strings",
			raw:    []any{"1.5", 2.25},
			kind:   synth.KindString,
			values: []any{"1.5", "2.25"},
		},
		{
			name:   "mixed falls back to string",
			raw:    []any{"1", "2000-01-01", true},
			kind:   synth.KindString,
			values: []any{"1", "2000-01-01", "true"},
		},
		{
			name:   "all null",
			raw:    []any{"", nil},
			kind:   synth.KindNull,
			values: []any{nil, nil},
			nulls:  2,
		},
	}

	engine := NewTypeInferenceEngine(zaptest.NewLogger(t), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := engine.Coerce("c", tt.raw)
			assert.Equal(t, tt.kind, col.Kind)
			assert.Equal(t, tt.nulls, col.Nulls)
			require.Len(t, col.Values, len(tt.values))
			for i := range tt.values {
				if want, ok := tt.values[i].(time.Time); ok {
					got, ok := col.Values[i].(time.Time)
					require.True(t, ok, "value %d is %T", i, col.Values[i])
					assert.True(t, want.Equal(got), "value %d: %s != %s", i, want, got)
					continue
				}
				if want, ok := tt.values[i].(synth.Range); ok {
					got, ok := col.Values[i].(synth.Range)
					require.True(t, ok)
					assert.Zero(t, want.Compare(got))
					continue
				}
				assert.Equal(t, tt.values[i], col.Values[i])
			}
		})
	}
}

func TestCoerce_ResultFeedsBuild(t *testing.T) {
	engine := NewTypeInferenceEngine(nil, nil)
	col := engine.Coerce("joined", []any{"2020-01-01", "", "2021-06-30"})
	require.Equal(t, synth.KindDate, col.Kind)

	m, err := synth.Build(col.Values, synth.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, synth.KindDate, m.Kind())
	_, nullable := m.(*synth.NullableModel)
	assert.True(t, nullable)
}

func TestCoerce_CustomNullValues(t *testing.T) {
	engine := NewTypeInferenceEngine(nil, []string{"n/a"})
	col := engine.Coerce("c", []any{"n/a", "", "x"})
	assert.Equal(t, synth.KindString, col.Kind)
	assert.Equal(t, []any{nil, "", "x"}, col.Values)
	assert.Equal(t, 1, col.Nulls)
}

func TestCoerce_StringFormat(t *testing.T) {
	engine := NewTypeInferenceEngine(nil, nil)
	col := engine.Coerce("email", []any{"a@example.com", "b@example.org", "c@example.net"})
	assert.Equal(t, "email", col.Format)
	assert.Equal(t, "format: email", col.Field().Description)
	assert.Equal(t, 3, col.Distinct)
}

func TestCoerceDataset(t *testing.T) {
	ds := models.NewDataset("people", nil, []*models.Record{
		models.NewRecord(map[string]any{"id": "1", "born": "1990-02-03", "name": "ada"}),
		models.NewRecord(map[string]any{"id": "2", "born": "", "name": "alan"}),
	})

	schema := NewTypeInferenceEngine(nil, nil).CoerceDataset(ds)
	assert.Equal(t, "people", schema.Name)
	assert.Equal(t, []models.Field{
		{Name: "born", Type: "date", Nullable: true},
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "string"},
	}, schema.Fields)
	assert.Same(t, schema, ds.Schema)
	assert.Equal(t, []any{int64(1), int64(2)}, ds.Column("id"))
}

package avro

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

var testSchema = &models.Schema{
	Name: "events",
	Fields: []models.Field{
		{Name: "id", Type: "integer"},
		{Name: "day", Type: "date", Nullable: true},
		{Name: "at", Type: "datetime"},
		{Name: "took", Type: "duration"},
		{Name: "window", Type: "datetime_range"},
		{Name: "2nd name", Type: "string", Nullable: true},
		{Name: "nothing", Type: "null", Nullable: true},
	},
}

func readAll(t *testing.T, path string) ([]map[string]any, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := goavro.NewOCFReader(f)
	require.NoError(t, err)
	var out []map[string]any
	for r.Scan() {
		v, err := r.Read()
		require.NoError(t, err)
		out = append(out, v.(map[string]any))
	}
	require.NoError(t, r.Err())
	return out, r.CompressionName()
}

func TestAvroDestination_RoundTrip(t *testing.T) {
	for _, codec := range []string{"null", "deflate", "snappy"} {
		t.Run(codec, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "events.avro")
			cfg := config.NewDefault()
			cfg.Destination.Type = "avro"
			cfg.Destination.Path = path
			cfg.Destination.AvroCodec = codec

			dst, err := NewAvroDestination(cfg)
			require.NoError(t, err)

			start := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
			records := []*models.Record{
				models.NewRecord(map[string]any{
					"id":       int64(1),
					"day":      civil.Date{Year: 2021, Month: 3, Day: 1},
					"at":       start,
					"took":     90 * time.Second,
					"window":   synth.Range{Start: start, End: start.Add(time.Hour)},
					"2nd name": "ada",
					"nothing":  nil,
				}),
				models.NewRecord(map[string]any{
					"id":     int32(2),
					"at":     start.Add(time.Minute),
					"took":   time.Millisecond,
					"window": synth.Range{Start: start, End: start},
				}),
			}
			require.NoError(t, dst.Write(context.Background(), testSchema, records))
			require.NoError(t, dst.Close())

			rows, name := readAll(t, path)
			assert.Equal(t, codec, name)
			require.Len(t, rows, 2)

			first := rows[0]
			assert.Equal(t, int64(1), first["id"])
			day := first["day"].(map[string]any)["int.date"].(time.Time)
			assert.Equal(t, "2021-03-01", day.Format("2006-01-02"))
			assert.True(t, start.Equal(first["at"].(time.Time)))
			assert.Equal(t, int64(90_000_000), first["took"])
			window := first["window"].(map[string]any)
			assert.True(t, start.Add(time.Hour).Equal(window["end"].(time.Time)))
			assert.Equal(t, map[string]any{"string": "ada"}, first["_2nd_name"])
			assert.Nil(t, first["nothing"])

			second := rows[1]
			assert.Equal(t, int64(2), second["id"])
			assert.Nil(t, second["day"])
			assert.Nil(t, second["_2nd_name"])
		})
	}
}

func TestAvroDestination_EmptyWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.avro")
	cfg := config.NewDefault()
	cfg.Destination.Path = path

	dst, err := NewAvroDestination(cfg)
	require.NoError(t, err)
	require.NoError(t, dst.Write(context.Background(), testSchema, nil))
	require.NoError(t, dst.Close())

	rows, _ := readAll(t, path)
	assert.Empty(t, rows)
}

func TestAvroDestination_ValueMismatch(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Destination.Path = filepath.Join(t.TempDir(), "bad.avro")

	dst, err := NewAvroDestination(cfg)
	require.NoError(t, err)
	defer dst.Close()

	schema := &models.Schema{Name: "t", Fields: []models.Field{{Name: "id", Type: "integer"}}}
	err = dst.Write(context.Background(), schema, []*models.Record{
		models.NewRecord(map[string]any{"id": "one"}),
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
	field, ok := errors.Detail(err, "field")
	assert.True(t, ok)
	assert.Equal(t, "id", field)
}

func TestNewAvroDestination_UnknownCodec(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Destination.Path = "out.avro"
	cfg.Destination.AvroCodec = "bzip2"
	_, err := NewAvroDestination(cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestAvroName(t *testing.T) {
	assert.Equal(t, "_2nd_name", avroName("2nd name", "f"))
	assert.Equal(t, "a_b", avroName("a-b", "f"))
	assert.Equal(t, "f", avroName("", "f"))
}

func TestBuildSchema_DuplicateNames(t *testing.T) {
	s, err := buildSchema(&models.Schema{Name: "t", Fields: []models.Field{
		{Name: "a-b", Type: "string"},
		{Name: "a_b", Type: "string"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "a_b", s.columns[0].name)
	assert.Equal(t, "a_b_2", s.columns[1].name)
	_, err = goavro.NewCodec(s.json)
	assert.NoError(t, err)

	s, err = buildSchema(&models.Schema{Name: "t", Fields: []models.Field{
		{Name: "a_2", Type: "integer"},
		{Name: "a", Type: "integer"},
		{Name: "a", Type: "integer"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_2", "a", "a_3"}, []string{s.columns[0].name, s.columns[1].name, s.columns[2].name})
	_, err = goavro.NewCodec(s.json)
	assert.NoError(t, err)
}

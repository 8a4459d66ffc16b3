package json

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

var schema = &models.Schema{Name: "events", Fields: []models.Field{
	{Name: "id", Type: "integer"},
	{Name: "day", Type: "date", Nullable: true},
	{Name: "at", Type: "datetime"},
	{Name: "took", Type: "duration"},
	{Name: "window", Type: "datetime_range"},
}}

func records() []*models.Record {
	at := time.Date(2021, 3, 1, 10, 0, 0, 500_000_000, time.UTC)
	return []*models.Record{
		models.NewRecord(map[string]any{
			"id":     int64(1),
			"day":    civil.Date{Year: 2021, Month: time.March, Day: 1},
			"at":     at,
			"took":   90 * time.Second,
			"window": synth.Range{Start: at, End: at.Add(time.Hour)},
		}),
		models.NewRecord(map[string]any{
			"id":     int64(2),
			"at":     at,
			"took":   time.Duration(0),
			"window": synth.Range{Start: at, End: at},
		}),
	}
}

func write(t *testing.T, format string) string {
	t.Helper()
	cfg := config.NewDefault()
	cfg.Destination.Type = "json"
	cfg.Destination.Format = format
	cfg.Destination.Path = filepath.Join(t.TempDir(), "events.json")

	dst, err := NewJSONDestination(cfg)
	require.NoError(t, err)
	require.NoError(t, dst.Write(context.Background(), schema, records()))
	require.NoError(t, dst.Close())

	data, err := os.ReadFile(cfg.Destination.Path)
	require.NoError(t, err)
	return string(data)
}

const (
	first  = `{"at":"2021-03-01T10:00:00.5Z","day":"2021-03-01","id":1,"took":"1m30s","window":"2021-03-01T10:00:00.5Z/2021-03-01T11:00:00.5Z"}`
	second = `{"at":"2021-03-01T10:00:00.5Z","day":null,"id":2,"took":"0s","window":"2021-03-01T10:00:00.5Z/2021-03-01T10:00:00.5Z"}`
)

func TestJSONDestination_Lines(t *testing.T) {
	assert.Equal(t, first+"\n"+second+"\n", write(t, "lines"))
}

func TestJSONDestination_Array(t *testing.T) {
	assert.JSONEq(t, "["+first+","+second+"]", write(t, "array"))
}

func TestJSONDestination_EmptyArray(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Destination.Format = "array"
	cfg.Destination.Path = filepath.Join(t.TempDir(), "empty.json")

	dst, err := NewJSONDestination(cfg)
	require.NoError(t, err)
	require.NoError(t, dst.Write(context.Background(), schema, nil))
	require.NoError(t, dst.Close())

	data, err := os.ReadFile(cfg.Destination.Path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

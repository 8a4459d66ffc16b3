package csv

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
)

var schema = &models.Schema{Name: "people", Fields: []models.Field{
	{Name: "id", Type: "integer"},
	{Name: "name", Type: "string", Nullable: true},
	{Name: "born", Type: "date"},
}}

var records = []*models.Record{
	models.NewRecord(map[string]any{"id": int64(1), "name": "ada", "born": civil.Date{Year: 1815, Month: time.December, Day: 10}}),
	models.NewRecord(map[string]any{"id": int64(2), "name": nil, "born": civil.Date{Year: 1912, Month: time.June, Day: 23}}),
}

func write(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	cfg := config.NewDefault()
	cfg.Destination.Type = "csv"
	cfg.Destination.Path = filepath.Join(t.TempDir(), "people.csv")
	if mutate != nil {
		mutate(cfg)
	}

	dst, err := NewCSVDestination(cfg)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, dst.Write(ctx, schema, records[:1]))
	require.NoError(t, dst.Write(ctx, schema, records[1:]))
	require.NoError(t, dst.Close())
	require.NoError(t, dst.Close())
	return cfg.Destination.Path
}

func TestCSVDestination_Write(t *testing.T) {
	path := write(t, nil)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,born\n1,ada,1815-12-10\n2,,1912-06-23\n", string(data))
}

func TestCSVDestination_NoHeaderDelimiter(t *testing.T) {
	path := write(t, func(c *config.Config) {
		c.Destination.WriteHeader = false
		c.Destination.Delimiter = "|"
	})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1|ada|1815-12-10\n2||1912-06-23\n", string(data))
}

func TestCSVDestination_Gzip(t *testing.T) {
	path := write(t, func(c *config.Config) {
		c.Destination.Path += ".gz"
	})
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "id,name,born\n1,ada,1815-12-10\n2,,1912-06-23\n", string(data))
}

func TestCSVDestination_HeaderOnlyWhenEmpty(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Destination.Path = filepath.Join(t.TempDir(), "empty.csv")
	dst, err := NewCSVDestination(cfg)
	require.NoError(t, err)
	require.NoError(t, dst.Write(context.Background(), schema, nil))
	require.NoError(t, dst.Close())

	data, err := os.ReadFile(cfg.Destination.Path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,born\n", string(data))
}

func TestNewCSVDestination_RequiresPath(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Destination.Path = ""
	_, err := NewCSVDestination(cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

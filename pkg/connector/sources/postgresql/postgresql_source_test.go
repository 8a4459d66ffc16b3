package postgresql

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

func TestNewPostgreSQLSource_Validation(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Source.Type = "postgresql"
	_, err := NewPostgreSQLSource(cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg.Source.DSN = "postgres://localhost/db"
	_, err = NewPostgreSQLSource(cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg.Source.Table = "users"
	src, err := NewPostgreSQLSource(cfg)
	assert.NoError(t, err)
	assert.Equal(t, "postgresql", src.Name())
	assert.NoError(t, src.Close())
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, `SELECT * FROM "public"."users"`, buildQuery(config.SourceConfig{Table: "public.users"}))
	assert.Equal(t, `SELECT * FROM "we""ird"`, buildQuery(config.SourceConfig{Table: `we"ird`}))
	assert.Equal(t, `SELECT * FROM (SELECT id FROM t) AS q LIMIT 10`,
		buildQuery(config.SourceConfig{Query: "SELECT id FROM t;", Limit: 10}))
}

func TestConvertPostgreSQLValue(t *testing.T) {
	text := pgconn.FieldDescription{Name: "c", DataTypeOID: pgtype.TextOID}
	date := pgconn.FieldDescription{Name: "d", DataTypeOID: pgtype.DateOID}
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	assert.Nil(t, convertPostgreSQLValue(text, nil))
	assert.Equal(t, "abc", convertPostgreSQLValue(text, []byte("abc")))
	assert.Equal(t, int32(7), convertPostgreSQLValue(text, int32(7)))
	assert.Equal(t, ts, convertPostgreSQLValue(text, ts))
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 1},
		convertPostgreSQLValue(date, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	interval := pgtype.Interval{Months: 1, Days: 2, Microseconds: 1_500_000, Valid: true}
	assert.Equal(t, 32*24*time.Hour+1500*time.Millisecond, convertPostgreSQLValue(text, interval))
	assert.Nil(t, convertPostgreSQLValue(text, pgtype.Interval{}))

	uuid := [16]byte{0x12, 0x3e, 0x45, 0x67, 0xe8, 0x9b, 0x12, 0xd3, 0xa4, 0x56, 0x42, 0x66, 0x14, 0x17, 0x40, 0x00}
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", convertPostgreSQLValue(text, uuid))

	assert.Equal(t, `{"a":1}`, convertPostgreSQLValue(text, map[string]any{"a": 1}))
}

func TestConvertRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	got := convertRange(pgtype.Range[any]{
		Lower: start, Upper: end,
		LowerType: pgtype.Inclusive, UpperType: pgtype.Exclusive,
		Valid: true,
	})
	assert.Equal(t, synth.Range{Start: start, End: end}, got)

	open := convertRange(pgtype.Range[any]{
		Lower: start, LowerType: pgtype.Inclusive, UpperType: pgtype.Unbounded, Valid: true,
	})
	assert.Equal(t, "[2024-01-01T09:00:00Z,)", open)

	ints := convertRange(pgtype.Range[any]{
		Lower: int32(1), Upper: int32(5),
		LowerType: pgtype.Inclusive, UpperType: pgtype.Exclusive, Valid: true,
	})
	assert.Equal(t, "[1,5)", ints)

	assert.Nil(t, convertRange(pgtype.Range[any]{}))
}

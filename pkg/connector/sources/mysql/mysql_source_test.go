package mysql

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
)

func TestNewMySQLSource_Validation(t *testing.T) {
	cfg := config.NewDefault()
	_, err := NewMySQLSource(cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg.Source.DSN = "user:pw@tcp(localhost:3306)/shop"
	cfg.Source.Query = "SELECT 1"
	src, err := NewMySQLSource(cfg)
	require.NoError(t, err)
	assert.NoError(t, src.Close())
}

func TestNormalizeDSN(t *testing.T) {
	dsn, err := normalizeDSN("user:pw@tcp(localhost:3306)/shop")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = normalizeDSN("not a dsn")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "SELECT * FROM `shop`.`orders`", buildQuery(config.SourceConfig{Table: "shop.orders"}))
	assert.Equal(t, "SELECT * FROM `a``b`", buildQuery(config.SourceConfig{Table: "a`b"}))
	assert.Equal(t, "SELECT * FROM (SELECT id FROM t) AS q LIMIT 5", buildQuery(config.SourceConfig{Query: " SELECT id FROM t; ", Limit: 5}))
}

func TestConvertMySQLValue(t *testing.T) {
	midnight := time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, convertMySQLValue("INT", nil))
	assert.Equal(t, civil.Date{Year: 1999, Month: 12, Day: 31}, convertMySQLValue("DATE", midnight))
	assert.Equal(t, midnight, convertMySQLValue("DATETIME", midnight))
	assert.Equal(t, "12.50", convertMySQLValue("DECIMAL", []byte("12.50")))
	assert.Equal(t, 26*time.Hour+30*time.Minute, convertMySQLValue("TIME", []byte("26:30:00")))
	assert.Equal(t, int64(3), convertMySQLValue("BIGINT", int64(3)))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"00:00:00", 0, true},
		{"838:59:59", 838*time.Hour + 59*time.Minute + 59*time.Second, true},
		{"-01:00:00.5", -(time.Hour + 500*time.Millisecond), true},
		{"10:15:30.000001", 10*time.Hour + 15*time.Minute + 30*time.Second + time.Microsecond, true},
		{"10:61:00", 0, false},
		{"10:00", 0, false},
		{"aa:00:00", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseTime(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

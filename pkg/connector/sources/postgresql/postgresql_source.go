// Package postgresql provides the PostgreSQL source connector built on pgx.
package postgresql

import (
	"context"
	"database/sql/driver"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/connector/shared"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

// daysPerMonth converts interval months to days, as justify_interval does.
const daysPerMonth = 30

func init() {
	_ = registry.RegisterSource(registry.ConnectorInfo{
		Name:         "postgresql",
		Description:  "PostgreSQL table or query via pgx (dates, timestamps, intervals and ranges mapped natively)",
		Capabilities: []string{"table", "query", "limit"},
	}, NewPostgreSQLSource)
}

// PostgreSQLSource reads a table or query result.
type PostgreSQLSource struct {
	*base.BaseConnector

	dataset string
	cfg     config.SourceConfig
	pool    *pgxpool.Pool
}

// NewPostgreSQLSource creates a new PostgreSQL source connector
func NewPostgreSQLSource(cfg *config.Config) (core.Source, error) {
	if cfg.Source.DSN == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "postgresql source requires dsn")
	}
	if cfg.Source.Table == "" && cfg.Source.Query == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "postgresql source requires table or query")
	}
	return &PostgreSQLSource{
		BaseConnector: base.NewBaseConnector("postgresql", core.ConnectorTypeSource),
		dataset:       cfg.Name,
		cfg:           cfg.Source,
	}, nil
}

// Read runs the query and loads every row.
func (s *PostgreSQLSource) Read(ctx context.Context) (*models.Dataset, error) {
	ctx, span := s.Tracer().StartSpan(ctx, "read")
	defer span.End()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.setupConnectionPool(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	query := buildQuery(s.cfg)
	s.GetLogger().Debug("executing query", zap.String("query", query))

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to execute query")
	}
	defer rows.Close()

	ds, err := s.scanRows(rows)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("records", ds.Len())
	s.RecordRead(ds.Len())
	s.GetLogger().Info("PostgreSQL source read",
		zap.Int("records", ds.Len()),
		zap.Int("columns", len(ds.Schema.Fields)))
	return ds, nil
}

// setupConnectionPool configures and creates the PostgreSQL connection pool
func (s *PostgreSQLSource) setupConnectionPool(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(s.cfg.DSN)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse connection string")
	}
	poolConfig.MaxConns = 2
	poolConfig.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to create connection pool")
	}
	if err := s.Connect(ctx, pool.Ping); err != nil {
		pool.Close()
		return err
	}
	s.pool = pool
	s.GetLogger().Info("connected to PostgreSQL",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database))
	return nil
}

func (s *PostgreSQLSource) scanRows(rows pgx.Rows) (*models.Dataset, error) {
	descs := rows.FieldDescriptions()
	schema := &models.Schema{Name: s.dataset, Fields: make([]models.Field, len(descs))}
	for i, fd := range descs {
		schema.Fields[i] = models.Field{Name: fd.Name, Type: "string"}
	}

	var records []*models.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to get row values").
				WithDetail("row", len(records)+1)
		}
		data := make(map[string]any, len(values))
		for i, value := range values {
			data[descs[i].Name] = convertPostgreSQLValue(descs[i], value)
		}
		records = append(records, models.NewRecord(data))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to read rows")
	}
	return models.NewDataset(s.dataset, schema, records), nil
}

// Close closes the PostgreSQL connection pool
func (s *PostgreSQLSource) Close() error {
	if !s.MarkClosed() {
		return nil
	}
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

// buildQuery returns the configured query or a SELECT over the table, with
// the row limit applied.
func buildQuery(cfg config.SourceConfig) string {
	query := cfg.Query
	if query == "" {
		query = "SELECT * FROM " + pgx.Identifier(strings.Split(cfg.Table, ".")).Sanitize()
	}
	if cfg.Limit > 0 {
		query = "SELECT * FROM (" + strings.TrimSuffix(strings.TrimSpace(query), ";") + ") AS q LIMIT " + strconv.Itoa(cfg.Limit)
	}
	return query
}

// convertPostgreSQLValue maps pgx values to the shapes the models understand.
func convertPostgreSQLValue(fd pgconn.FieldDescription, value any) any {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		if fd.DataTypeOID == pgtype.DateOID {
			return shared.DateOf(v)
		}
		return v
	case pgtype.Interval:
		if !v.Valid {
			return nil
		}
		days := int64(v.Days) + int64(v.Months)*daysPerMonth
		return time.Duration(days)*24*time.Hour + time.Duration(v.Microseconds)*time.Microsecond
	case pgtype.Range[any]:
		return convertRange(v)
	case [16]byte:
		return shared.UUIDString(v)
	case map[string]any, []any:
		return shared.JSONText(v)
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return nil
		}
		return dv
	default:
		return v
	}
}

// convertRange maps bounded timestamp ranges to synth.Range. Other ranges
// keep their text form.
func convertRange(r pgtype.Range[any]) any {
	if !r.Valid {
		return nil
	}
	lower, lok := r.Lower.(time.Time)
	upper, uok := r.Upper.(time.Time)
	if lok && uok && r.LowerType != pgtype.Unbounded && r.UpperType != pgtype.Unbounded {
		return synth.Range{Start: lower, End: upper}
	}
	return rangeText(r)
}

func rangeText(r pgtype.Range[any]) string {
	var b strings.Builder
	if r.LowerType == pgtype.Inclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if r.LowerType != pgtype.Unbounded {
		b.WriteString(valueText(r.Lower))
	}
	b.WriteByte(',')
	if r.UpperType != pgtype.Unbounded {
		b.WriteString(valueText(r.Upper))
	}
	if r.UpperType == pgtype.Inclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

func valueText(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case pgtype.Numeric:
		if dv, err := x.Value(); err == nil {
			if s, ok := dv.(string); ok {
				return s
			}
		}
	}
	return ""
}

// Package mysql provides the MySQL source connector built on database/sql
// and go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/connector/shared"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
)

func init() {
	_ = registry.RegisterSource(registry.ConnectorInfo{
		Name:         "mysql",
		Description:  "MySQL table or query (DATE, DATETIME and TIME mapped natively)",
		Capabilities: []string{"table", "query", "limit"},
	}, NewMySQLSource)
}

// MySQLSource reads a table or query result.
type MySQLSource struct {
	*base.BaseConnector

	dataset string
	cfg     config.SourceConfig
	db      *sql.DB
}

// NewMySQLSource creates a new MySQL source connector
func NewMySQLSource(cfg *config.Config) (core.Source, error) {
	if cfg.Source.DSN == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mysql source requires dsn")
	}
	if cfg.Source.Table == "" && cfg.Source.Query == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mysql source requires table or query")
	}
	return &MySQLSource{
		BaseConnector: base.NewBaseConnector("mysql", core.ConnectorTypeSource),
		dataset:       cfg.Name,
		cfg:           cfg.Source,
	}, nil
}

// Read runs the query and loads every row.
func (s *MySQLSource) Read(ctx context.Context) (*models.Dataset, error) {
	ctx, span := s.Tracer().StartSpan(ctx, "read")
	defer span.End()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.open(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	query := buildQuery(s.cfg)
	s.GetLogger().Debug("executing query", zap.String("query", query))

	rows, err := s.db.QueryContext(ctx, query)
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
	s.GetLogger().Info("MySQL source read",
		zap.Int("records", ds.Len()),
		zap.Int("columns", len(ds.Schema.Fields)))
	return ds, nil
}

func (s *MySQLSource) open(ctx context.Context) error {
	dsn, err := normalizeDSN(s.cfg.DSN)
	if err != nil {
		return err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to open MySQL connection")
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(time.Minute)

	if err := s.Connect(ctx, db.PingContext); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *MySQLSource) scanRows(rows *sql.Rows) (*models.Dataset, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to get column types")
	}

	schema := &models.Schema{Name: s.dataset, Fields: make([]models.Field, len(columnTypes))}
	dbTypes := make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		schema.Fields[i] = models.Field{Name: ct.Name(), Type: "string"}
		dbTypes[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	values := make([]any, len(columnTypes))
	ptrs := make([]any, len(columnTypes))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var records []*models.Record
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to scan row").
				WithDetail("row", len(records)+1)
		}
		data := make(map[string]any, len(values))
		for i, v := range values {
			data[schema.Fields[i].Name] = convertMySQLValue(dbTypes[i], v)
		}
		records = append(records, models.NewRecord(data))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to read rows")
	}
	return models.NewDataset(s.dataset, schema, records), nil
}

// Close closes the database handle
func (s *MySQLSource) Close() error {
	if !s.MarkClosed() || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close MySQL connection")
	}
	return nil
}

// normalizeDSN forces time parsing so DATE and DATETIME columns scan as
// time.Time.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeConfig, "invalid mysql dsn")
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN(), nil
}

func quoteIdentifier(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

func buildQuery(cfg config.SourceConfig) string {
	query := cfg.Query
	if query == "" {
		query = "SELECT * FROM " + quoteIdentifier(cfg.Table)
	}
	if cfg.Limit > 0 {
		query = "SELECT * FROM (" + strings.TrimSuffix(strings.TrimSpace(query), ";") + ") AS q LIMIT " + strconv.Itoa(cfg.Limit)
	}
	return query
}

// convertMySQLValue maps driver values to the shapes the models understand.
func convertMySQLValue(dbType string, value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if dbType == "DATE" {
			return shared.DateOf(v)
		}
		return v
	case []byte:
		if dbType == "TIME" {
			if d, ok := parseTime(string(v)); ok {
				return d
			}
		}
		return string(v)
	default:
		return v
	}
}

// parseTime parses a MySQL TIME value, [-]HHH:MM:SS[.ffffff], which is an
// elapsed time rather than a time of day.
func parseTime(s string) (time.Duration, bool) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || minutes > 59 {
		return 0, false
	}
	secPart, fracPart, _ := strings.Cut(parts[2], ".")
	seconds, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || seconds > 59 {
		return 0, false
	}
	var micros int64
	if fracPart != "" {
		if len(fracPart) > 6 {
			return 0, false
		}
		f, err := strconv.ParseInt(fracPart+strings.Repeat("0", 6-len(fracPart)), 10, 64)
		if err != nil {
			return 0, false
		}
		micros = f
	}

	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second + time.Duration(micros)*time.Microsecond
	if neg {
		d = -d
	}
	return d, true
}

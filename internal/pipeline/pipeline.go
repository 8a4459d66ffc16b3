package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/logger"
	"github.com/ajitpratap0/synthdata/pkg/metrics"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/observability"
)

// RunConfig contains the parameters of one generate run.
type RunConfig struct {
	// Rows is the number of synthetic records to write
	Rows int
	// BatchSize is the number of records per destination Write (default 1000)
	BatchSize int
	Fit       FitOptions
}

// RunStats summarises a completed run.
type RunStats struct {
	JobID          string        `json:"job_id"`
	RecordsRead    int           `json:"records_read"`
	RecordsWritten int           `json:"records_written"`
	Batches        int           `json:"batches"`
	Columns        int           `json:"columns"`
	Seed           int64         `json:"seed"`
	Duration       time.Duration `json:"duration"`
	ThroughputRPS  float64       `json:"throughput_rps"`
}

// Profile reads src, closes it and fits a table model.
func Profile(ctx context.Context, src core.Source, opts FitOptions) (*TableModel, error) {
	ds, err := read(ctx, src)
	if err != nil {
		return nil, err
	}
	return Fit(ctx, ds, opts)
}

// Run reads the source, fits a table model and writes cfg.Rows synthetic
// records to dst in batches. The destination always receives at least one
// Write, so empty outputs still carry their header or container. Both
// connectors are closed before Run returns.
func Run(ctx context.Context, src core.Source, dst core.Destination, cfg RunConfig) (stats *RunStats, err error) {
	if cfg.Rows < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "rows must not be negative, got %d", cfg.Rows)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	cfg.Fit = cfg.Fit.withDefaults()

	stats = &RunStats{JobID: uuid.NewString(), Seed: cfg.Fit.Seed}
	ctx = context.WithValue(ctx, logger.JobIDKey, stats.JobID)
	log := cfg.Fit.Logger.With(zap.String("job_id", stats.JobID))
	cfg.Fit.Logger = log

	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close destination")
		}
	}()

	start := time.Now()
	log.Info("starting pipeline",
		zap.String("source", src.Name()),
		zap.String("destination", dst.Name()),
		zap.Int("rows", cfg.Rows),
		zap.Int("batch_size", cfg.BatchSize))

	ds, err := read(ctx, src)
	if err != nil {
		return nil, err
	}
	stats.RecordsRead = ds.Len()
	ctx = context.WithValue(ctx, logger.DatasetKey, ds.Schema.Name)

	tm, err := Fit(ctx, ds, cfg.Fit)
	if err != nil {
		return nil, err
	}
	stats.Columns = len(tm.Schema().Fields)

	tracker := metrics.NewThroughputTracker(src.Name(), dst.Name())
	if err := write(ctx, tm, dst, cfg, tracker, stats); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	stats.ThroughputRPS = tracker.GetAndReset()
	logger.WithContext(ctx).Info("pipeline completed",
		zap.Int("records_read", stats.RecordsRead),
		zap.Int("records_written", stats.RecordsWritten),
		zap.Int("batches", stats.Batches),
		zap.Duration("duration", stats.Duration),
		zap.Float64("throughput_rps", stats.ThroughputRPS))
	return stats, nil
}

func read(ctx context.Context, src core.Source) (ds *models.Dataset, err error) {
	tracer := observability.NewStageTracer("source", src.Name())
	ctx, span := tracer.StartSpan(ctx, "read")
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	ds, err = src.Read(ctx)
	if cerr := src.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, errors.ErrorTypeConnection, "failed to close source")
	}
	if err != nil {
		return nil, err
	}
	span.SetAttribute("records", ds.Len())
	return ds, nil
}

func write(ctx context.Context, tm *TableModel, dst core.Destination, cfg RunConfig, tracker *metrics.ThroughputTracker, stats *RunStats) error {
	ctx, span := observability.NewStageTracer("destination", dst.Name()).StartSpan(ctx, "generate")
	defer span.End()

	schema := tm.Schema()
	for stats.Batches == 0 || stats.RecordsWritten < cfg.Rows {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return errors.Wrap(err, errors.ErrorTypeInternal, "pipeline cancelled").
				WithDetail("records_written", stats.RecordsWritten)
		}
		n := min(cfg.BatchSize, cfg.Rows-stats.RecordsWritten)
		batch := tm.Generate(n)
		if err := dst.Write(ctx, schema, batch); err != nil {
			span.RecordError(err)
			return err
		}
		stats.RecordsWritten += len(batch)
		stats.Batches++
		tracker.Increment(int64(len(batch)))
		span.AddEvent("batch written", attribute.Int("records", len(batch)))
	}
	span.SetAttribute("records", stats.RecordsWritten)
	span.SetAttribute("batches", stats.Batches)
	return nil
}

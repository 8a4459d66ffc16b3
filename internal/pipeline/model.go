package pipeline

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/logger"
	"github.com/ajitpratap0/synthdata/pkg/metrics"
	"github.com/ajitpratap0/synthdata/pkg/models"
	"github.com/ajitpratap0/synthdata/pkg/observability"
	"github.com/ajitpratap0/synthdata/pkg/schema"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

// FitOptions control how a table model is fit.
type FitOptions struct {
	// Seed derives one generator per column. Zero picks a seed from the clock.
	Seed int64
	// NullValues replaces schema.DefaultNullValues when non-empty
	NullValues []string
	// Location is used for datetimes without a zone offset (default UTC)
	Location *time.Location
	// Workers bounds the number of columns fit at once (default GOMAXPROCS)
	Workers int
	Logger  *zap.Logger
}

func (o FitOptions) withDefaults() FitOptions {
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = logger.Get()
	}
	return o
}

type columnModel struct {
	name  string
	model synth.Model
}

// TableModel holds one fitted model per column. Like the column models it is
// immutable once fit and safe for concurrent Generate calls.
type TableModel struct {
	schema  *models.Schema
	columns []columnModel
	seed    int64
}

// ColumnSummary describes the fitted model of one column.
type ColumnSummary struct {
	Column        string `json:"column" yaml:"column"`
	synth.Summary `yaml:",inline"`
}

// Fit coerces every column of ds into a supported shape and fits a model per
// column. ds is modified in place. Columns are fit concurrently; each column
// draws from its own generator so the result does not depend on scheduling.
func Fit(ctx context.Context, ds *models.Dataset, opts FitOptions) (*TableModel, error) {
	opts = opts.withDefaults()
	tracer := observability.NewStageTracer("pipeline", ds.Schema.Name)
	ctx, span := tracer.StartSpan(ctx, "fit")
	defer span.End()
	span.SetAttribute("records", ds.Len())
	span.SetAttribute("columns", len(ds.Schema.Fields))

	engine := schema.NewTypeInferenceEngine(opts.Logger, opts.NullValues)
	if opts.Location != nil {
		engine.SetLocation(opts.Location)
	}
	inferred := engine.CoerceDataset(ds)

	master := synth.NewRand(opts.Seed)
	tm := &TableModel{
		schema:  inferred,
		columns: make([]columnModel, len(inferred.Fields)),
		seed:    opts.Seed,
	}
	seeds := make([]int64, len(inferred.Fields))
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, field := range inferred.Fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := fitColumn(gctx, field.Name, ds.Column(field.Name), seeds[i], opts.Logger)
			if err != nil {
				return err
			}
			tm.columns[i] = columnModel{name: field.Name, model: m}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	opts.Logger.Info("table model fit",
		zap.String("dataset", inferred.Name),
		zap.Int("records", ds.Len()),
		zap.Int("columns", len(tm.columns)),
		zap.Int64("seed", opts.Seed),
		zap.Duration("elapsed", span.Elapsed()))
	return tm, nil
}

func fitColumn(ctx context.Context, name string, values []any, seed int64, log *zap.Logger) (synth.Model, error) {
	_, span := observability.NewStageTracer("model", name).StartSpan(ctx, "fit")
	defer span.End()

	log = log.With(zap.String("column", name))
	timer := metrics.NewTimer(name)
	m, err := synth.Build(values, synth.WithSeed(seed), synth.WithLogger(log))
	if err != nil {
		metrics.ObserveFit("unknown", timer.Stop(), err)
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.TypeOf(err), "failed to fit column").
			WithDetail("column", name)
	}
	elapsed := timer.Stop()
	metrics.ObserveFit(m.Kind().String(), elapsed, nil)

	summary := synth.Describe(m)
	metrics.NullProbability.WithLabelValues(name).Set(summary.NullProbability)
	span.SetAttribute("model.kind", summary.Kind)
	span.SetAttribute("model.nullable", summary.Nullable)

	log.Info("column model fit",
		zap.String("kind", summary.Kind),
		zap.Int("count", summary.Count),
		zap.Bool("nullable", summary.Nullable),
		zap.Duration("elapsed", elapsed))
	log.Debug("column model", zap.Stringer("model", m))
	return m, nil
}

// Schema returns the fitted schema. Field types are model kind names.
func (t *TableModel) Schema() *models.Schema {
	return t.schema
}

// Seed returns the seed the column generators were derived from.
func (t *TableModel) Seed() int64 {
	return t.seed
}

// Model returns the fitted model of a column.
func (t *TableModel) Model(column string) (synth.Model, bool) {
	for _, c := range t.columns {
		if c.name == column {
			return c.model, true
		}
	}
	return nil, false
}

// Generate draws n synthetic records.
func (t *TableModel) Generate(n int) []*models.Record {
	if n <= 0 {
		return nil
	}
	records := make([]*models.Record, n)
	for i := range records {
		data := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			data[c.name] = c.model.Sample()
		}
		records[i] = models.NewRecord(data)
	}
	for _, c := range t.columns {
		metrics.SamplesDrawn.WithLabelValues(c.model.Kind().String()).Add(float64(n))
	}
	return records
}

// Summaries describes each column model in schema order.
func (t *TableModel) Summaries() []ColumnSummary {
	out := make([]ColumnSummary, len(t.columns))
	for i, c := range t.columns {
		out[i] = ColumnSummary{
			Column:  c.name,
			Summary: synth.Describe(c.model),
		}
	}
	return out
}

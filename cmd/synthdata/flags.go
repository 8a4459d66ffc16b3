package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
)

const envPrefix = "SYNTHDATA"

// binding ties a flag to a config field. The viper key doubles as the
// environment variable name: source.path is SYNTHDATA_SOURCE_PATH.
type binding struct {
	key   string
	flag  string
	usage string
	set   setter
}

type flagKind int

const (
	stringFlag flagKind = iota
	intFlag
	int64Flag
	boolFlag
	listFlag
)

type setter struct {
	kind  flagKind
	apply func(cfg *config.Config, v *viper.Viper, key string)
}

func str(set func(*config.Config, string)) setter {
	return setter{stringFlag, func(cfg *config.Config, v *viper.Viper, key string) { set(cfg, v.GetString(key)) }}
}

func integer(set func(*config.Config, int)) setter {
	return setter{intFlag, func(cfg *config.Config, v *viper.Viper, key string) { set(cfg, v.GetInt(key)) }}
}

func integer64(set func(*config.Config, int64)) setter {
	return setter{int64Flag, func(cfg *config.Config, v *viper.Viper, key string) { set(cfg, v.GetInt64(key)) }}
}

func boolean(set func(*config.Config, bool)) setter {
	return setter{boolFlag, func(cfg *config.Config, v *viper.Viper, key string) { set(cfg, v.GetBool(key)) }}
}

// list accepts repeated flags as well as comma separated values, which is
// the only form an environment variable can take.
func list(set func(*config.Config, []string)) setter {
	return setter{listFlag, func(cfg *config.Config, v *viper.Viper, key string) {
		var out []string
		for _, s := range v.GetStringSlice(key) {
			for _, part := range strings.Split(s, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
		set(cfg, out)
	}}
}

var globalBindings = []binding{
	{"observability.log_level", "log-level", "log level (debug, info, warn, error)",
		str(func(c *config.Config, s string) { c.Observability.LogLevel = s })},
	{"observability.log_encoding", "log-encoding", "log encoding (console, json)",
		str(func(c *config.Config, s string) { c.Observability.LogEncoding = s })},
}

var sourceBindings = []binding{
	{"name", "name", "dataset name used in schemas and logs",
		str(func(c *config.Config, s string) { c.Name = s })},
	{"seed", "seed", "random seed; 0 picks one from the clock",
		integer64(func(c *config.Config, n int64) { c.Seed = n })},
	{"source.type", "source-type", "source connector (csv, json, postgresql, mysql, mongodb)",
		str(func(c *config.Config, s string) { c.Source.Type = s })},
	{"source.path", "source-path", "input file, - for stdin, s3:// or gs:// URI",
		str(func(c *config.Config, s string) { c.Source.Path = s })},
	{"source.dsn", "source-dsn", "database connection string",
		str(func(c *config.Config, s string) { c.Source.DSN = s })},
	{"source.query", "source-query", "SQL query to read",
		str(func(c *config.Config, s string) { c.Source.Query = s })},
	{"source.table", "source-table", "table to read when no query is given",
		str(func(c *config.Config, s string) { c.Source.Table = s })},
	{"source.database", "source-database", "MongoDB database",
		str(func(c *config.Config, s string) { c.Source.Database = s })},
	{"source.collection", "source-collection", "MongoDB collection",
		str(func(c *config.Config, s string) { c.Source.Collection = s })},
	{"source.has_header", "source-header", "CSV input has a header row",
		boolean(func(c *config.Config, b bool) { c.Source.HasHeader = b })},
	{"source.delimiter", "source-delimiter", "CSV input delimiter",
		str(func(c *config.Config, s string) { c.Source.Delimiter = s })},
	{"source.null_values", "null-values", "comma separated strings read as missing values",
		list(func(c *config.Config, s []string) { c.Source.NullValues = s })},
	{"source.compression", "source-compression", "input compression (default from extension)",
		str(func(c *config.Config, s string) { c.Source.Compression = s })},
	{"source.limit", "limit", "maximum number of source records to read",
		integer(func(c *config.Config, n int) { c.Source.Limit = n })},
}

var destinationBindings = []binding{
	{"rows", "rows", "number of synthetic records to write",
		integer(func(c *config.Config, n int) { c.Rows = n })},
	{"destination.type", "dest-type", "destination connector (csv, json, avro, kafka)",
		str(func(c *config.Config, s string) { c.Destination.Type = s })},
	{"destination.path", "dest-path", "output file, - for stdout, s3:// or gs:// URI",
		str(func(c *config.Config, s string) { c.Destination.Path = s })},
	{"destination.format", "dest-format", "JSON layout (lines, array)",
		str(func(c *config.Config, s string) { c.Destination.Format = s })},
	{"destination.delimiter", "dest-delimiter", "CSV output delimiter",
		str(func(c *config.Config, s string) { c.Destination.Delimiter = s })},
	{"destination.write_header", "dest-header", "write a CSV header row",
		boolean(func(c *config.Config, b bool) { c.Destination.WriteHeader = b })},
	{"destination.compression", "dest-compression", "output compression (default from extension)",
		str(func(c *config.Config, s string) { c.Destination.Compression = s })},
	{"destination.avro_codec", "avro-codec", "Avro block codec (null, deflate, snappy)",
		str(func(c *config.Config, s string) { c.Destination.AvroCodec = s })},
	{"destination.brokers", "brokers", "comma separated Kafka brokers",
		list(func(c *config.Config, s []string) { c.Destination.Brokers = s })},
	{"destination.topic", "topic", "Kafka topic",
		str(func(c *config.Config, s string) { c.Destination.Topic = s })},
	{"destination.batch_size", "batch-size", "records per destination write",
		integer(func(c *config.Config, n int) { c.Destination.BatchSize = n })},
	{"observability.metrics_addr", "metrics-addr", "serve Prometheus metrics on this address",
		str(func(c *config.Config, s string) { c.Observability.MetricsAddr = s })},
	{"observability.enable_tracing", "trace", "export trace spans to stderr",
		boolean(func(c *config.Config, b bool) { c.Observability.EnableTracing = b })},
}

// register adds the flags of bindings to fs. Flag defaults are zero values;
// config file values and NewDefault apply unless a flag or variable is set.
func register(fs *pflag.FlagSet, bindings []binding) {
	for _, b := range bindings {
		if fs.Lookup(b.flag) != nil {
			continue
		}
		switch b.set.kind {
		case listFlag:
			fs.StringSlice(b.flag, nil, b.usage)
		case intFlag:
			fs.Int(b.flag, 0, b.usage)
		case int64Flag:
			fs.Int64(b.flag, 0, b.usage)
		case boolFlag:
			fs.Bool(b.flag, false, b.usage)
		default:
			fs.String(b.flag, "", b.usage)
		}
	}
}

// overlay applies every binding whose flag was set or whose environment
// variable exists.
func overlay(cfg *config.Config, fs *pflag.FlagSet, bindings []binding) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range bindings {
		f := fs.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "failed to bind flag").
				WithDetail("flag", b.flag)
		}
		if v.IsSet(b.key) {
			b.set.apply(cfg, v, b.key)
		}
	}
	return nil
}

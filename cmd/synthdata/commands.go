package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/synthdata/internal/pipeline"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	"github.com/ajitpratap0/synthdata/pkg/logger"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "synthdata v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available connectors",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tNAME\tDESCRIPTION\tCAPABILITIES")
			for _, info := range registry.Catalog() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Type, info.Name, info.Description,
					strings.Join(info.Capabilities, ","))
			}
			_ = w.Flush()
		},
	}
}

// profileReport is the machine readable output of the profile command.
type profileReport struct {
	Dataset string                   `json:"dataset" yaml:"dataset"`
	Seed    int64                    `json:"seed" yaml:"seed"`
	Columns []pipeline.ColumnSummary `json:"columns" yaml:"columns"`
}

func (a *app) profileCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Fit column models and print their summaries",
		Example: `  synthdata profile --source-type csv --source-path people.csv
  synthdata profile -c synthdata.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, sourceBindings)
			if err != nil {
				return err
			}
			if err := cfg.Source.Validate(); err != nil {
				return err
			}
			log := logger.With(zap.String("component", "synthdata-cli"), zap.String("command", "profile"))

			ctx, cancel := signalContext(cmd)
			defer cancel()

			src, err := registry.CreateSource(cfg)
			if err != nil {
				return err
			}
			tm, err := pipeline.Profile(ctx, src, fitOptions(cfg, log))
			if err != nil {
				return err
			}

			report := profileReport{Dataset: tm.Schema().Name, Seed: tm.Seed(), Columns: tm.Summaries()}
			return writeReport(cmd.OutOrStdout(), format, report)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	register(cmd.Flags(), sourceBindings)
	return cmd
}

func writeReport(out io.Writer, format string, report profileReport) error {
	switch format {
	case "json":
		data, err := jsonpool.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode profile")
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode profile")
		}
		return enc.Close()
	case "text", "":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "dataset %s (seed %d)\n", report.Dataset, report.Seed)
		fmt.Fprintln(w, "COLUMN\tKIND\tCOUNT\tNULLABLE\tNULL_P\tMIN\tMAX")
		for _, c := range report.Columns {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%.3f\t%s\t%s\n",
				c.Column, c.Kind, c.Count, c.Nullable, c.NullProbability, c.Min, c.Max)
		}
		return w.Flush()
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported output format: %s", format)
	}
}

func (a *app) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fit column models and write synthetic records",
		Example: `  synthdata generate --source-type csv --source-path people.csv --rows 10000 \
      --dest-type json --dest-path people.jsonl.gz --seed 42
  SYNTHDATA_SOURCE_DSN=postgres://localhost/app synthdata generate \
      --source-type postgresql --source-table users --dest-type avro --dest-path s3://bucket/users.avro`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, sourceBindings, destinationBindings)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := logger.With(
				zap.String("component", "synthdata-cli"),
				zap.String("source", cfg.Source.Type),
				zap.String("destination", cfg.Destination.Type))

			stop, err := startObservability(cfg, log)
			if err != nil {
				return err
			}
			defer stop()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			src, err := registry.CreateSource(cfg)
			if err != nil {
				return err
			}
			dst, err := registry.CreateDestination(cfg)
			if err != nil {
				_ = src.Close()
				return err
			}

			stats, err := pipeline.Run(ctx, src, dst, pipeline.RunConfig{
				Rows:      cfg.Rows,
				BatchSize: cfg.Destination.GetBatchSize(),
				Fit:       fitOptions(cfg, log),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d synthetic records from %d source records (seed %d) in %s\n",
				stats.RecordsWritten, stats.RecordsRead, stats.Seed, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
	register(cmd.Flags(), sourceBindings)
	register(cmd.Flags(), destinationBindings)
	return cmd
}

// Package pipeline fits a table model from a source and streams synthetic
// records to a destination.
//
// # Overview
//
// A run has four stages:
//   - Read: the source materialises its records into a models.Dataset
//   - Fit: every column is coerced to a supported shape and fit with
//     synth.Build, one generator per column derived from the run seed
//   - Generate: the table model samples each column independently
//   - Write: records reach the destination in batches
//
// # Basic Usage
//
//	stats, err := pipeline.Run(ctx, source, destination, pipeline.RunConfig{
//	    Rows:      10000,
//	    BatchSize: 1000,
//	    Fit:       pipeline.FitOptions{Seed: 42},
//	})
//
// Columns are modelled independently, so correlations between columns are
// not reproduced.
package pipeline

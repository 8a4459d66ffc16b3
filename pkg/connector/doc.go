// Package connector holds the sources synthdata fits models on and the
// destinations it writes synthetic records to.
//
// # Architecture Overview
//
//   - core: the Source and Destination interfaces.
//
//   - base: BaseConnector, embedded by every connector. It carries the
//     connector logger, a tracer, metrics counters and a retry policy used
//     when connecting.
//
//   - sources: csv, json, postgresql, mysql and mongodb. A source reads the
//     whole table into a models.Dataset; values stay raw and the schema
//     package coerces them before fitting.
//
//   - destinations: csv, json, avro and kafka. Destinations open their output
//     on the first Write, so an empty run still produces a header, an empty
//     JSON array or an empty Avro file.
//
//   - registry: factories keyed by name. Connectors register themselves in
//     init(); importing the sources and destinations packages registers all
//     of them.
//
//   - shared: value conversions used by more than one connector.
//
// # Example Usage
//
//	cfg := config.NewDefault()
//	cfg.Source.Type = "csv"
//	cfg.Source.Path = "people.csv"
//	cfg.Destination.Type = "json"
//	cfg.Destination.Path = "s3://bucket/synthetic/people.jsonl.gz"
//
//	src, err := registry.CreateSource(cfg)
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
//	ds, err := src.Read(ctx)
//
// File paths accept local files, "-" for stdin or stdout, s3:// and gs://
// URIs. A compression extension (.gz, .zst, .lz4, .sz, .s2, .deflate) is applied
// transparently unless the compression setting overrides it.
package connector

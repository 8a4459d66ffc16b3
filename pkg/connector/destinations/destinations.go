// Package destinations registers every destination connector. Import it for
// its side effects.
package destinations

import (
	// Import all destination connectors to trigger init() registration
	_ "github.com/ajitpratap0/synthdata/pkg/connector/destinations/avro"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/destinations/csv"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/destinations/json"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/destinations/kafka"
)

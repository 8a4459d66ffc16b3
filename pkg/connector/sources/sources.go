// Package sources registers every source connector. Import it for its side
// effects.
package sources

import (
	// Import all source connectors to trigger init() registration
	_ "github.com/ajitpratap0/synthdata/pkg/connector/sources/csv"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/sources/json"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/sources/mongodb"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/sources/mysql"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/sources/postgresql"
)

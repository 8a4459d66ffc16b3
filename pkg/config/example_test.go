package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/synthdata/pkg/config"
)

// ExampleNewDefault demonstrates creating a configuration with default
// values.
func ExampleNewDefault() {
	cfg := config.NewDefault()

	fmt.Printf("Rows: %d\n", cfg.Rows)
	fmt.Printf("Destination: %s\n", cfg.Destination.Path)
	fmt.Printf("Log Level: %s\n", cfg.Observability.LogLevel)

	// Output:
	// Rows: 1000
	// Destination: -
	// Log Level: info
}

// ExampleConfig_Validate shows how to validate a configuration before using
// it.
func ExampleConfig_Validate() {
	cfg := config.NewDefault()
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
	}

	cfg.Source.Type = "csv"
	cfg.Source.Path = "people.csv.gz"
	cfg.Destination.Type = "avro"
	cfg.Destination.AvroCodec = "deflate"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	fmt.Println("Configuration is valid!")

	// Output:
	// config: source.type is required
	// Configuration is valid!
}

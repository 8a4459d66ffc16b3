// Command synthdata fits per-column models to a real dataset and writes
// synthetic records with the same shape.
package main

import (
	"fmt"
	"os"

	"github.com/ajitpratap0/synthdata/pkg/logger"
)

func main() {
	err := newRootCmd().Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package main is the entry point of the seoscore CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/seoscore/cmd"
	"github.com/huangsam/seoscore/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", stopErr)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		iocache.CloseStores()
		os.Exit(1)
	}
}

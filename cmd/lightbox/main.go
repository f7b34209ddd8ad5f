// main is the entry point for the lightbox CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/lightbox/cmd"
	"github.com/huangsam/lightbox/internal/iocache"
)

func main() {
	// Hand the shared persistence manager to the command layer before any
	// command runs. Commands that skip store setup see an empty manager.
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Flush profiles and close database handles regardless of how the
	// command exited.
	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Fprintln(os.Stderr, "Warning:", perr)
	}
	iocache.CloseCaching()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Command pardemo runs the data-parallel operations of pardata on two large
// float32 vectors filled with sin(i) and cos(i), and reports their results
// and timings.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/statlerhq/admincore/cmd/provision/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// The CLI has already logged the diagnostic; the exit status is the
		// contract with the invoking operator.
		os.Exit(1)
	}
}

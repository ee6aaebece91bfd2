package main

import (
	"os"

	"kwscan/cmd/kwscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

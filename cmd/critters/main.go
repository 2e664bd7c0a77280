package main

import (
	"os"

	"github.com/theirongolddev/critters/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

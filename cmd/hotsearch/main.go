package main

import (
	"os"

	"github.com/keycool/hotsearch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

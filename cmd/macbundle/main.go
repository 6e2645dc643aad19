package main

import (
	"os"

	"github.com/macbundle/macbundle/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/drobledo/pulso-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

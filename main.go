package main

import (
	"os"

	"github.com/greenfleet/greenfleet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

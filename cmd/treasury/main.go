package main

import (
	"os"

	"github.com/rustyeddy/treasury/cmd/treasury/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

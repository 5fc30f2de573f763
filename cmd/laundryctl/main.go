package main

import (
	"os"

	"laundry-reservation/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

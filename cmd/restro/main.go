package main

import (
	"os"

	"github.com/canteenhq/restro/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

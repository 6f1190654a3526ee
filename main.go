package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/dsoumyadip/tb-update-handles/internal/cli"
)

var version = "dev"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

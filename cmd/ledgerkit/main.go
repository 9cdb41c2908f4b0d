package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bytebank/ledgerkit/internal/cli"
	"github.com/bytebank/ledgerkit/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env for local development; absence is not an error.
	_ = godotenv.Load()

	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		// Cobra already printed the error.
		return 1
	}
	return 0
}

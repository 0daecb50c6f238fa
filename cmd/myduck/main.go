package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/myducklabs/myduck/internal/cli"
)

func main() {
	// Optional .env next to the working directory; absence is fine.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[My Duck] Fatal error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/eshaffer321/tcg-inventory-backend/internal/cli"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/config"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	flags := cli.ParseServeFlags()
	cfg := config.LoadOrEnvWithPath(flags.Config)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

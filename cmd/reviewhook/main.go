package main

import (
	"os"

	"github.com/dshills/reviewhook/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	os.Exit(cli.Run())
}

package main

import (
	"github.com/joho/godotenv"

	"partfinder/internal/cli"
)

func main() {
	// Best effort; API keys may come from the real environment instead.
	_ = godotenv.Load()

	cli.Execute()
}

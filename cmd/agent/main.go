package main

import (
	"github.com/joho/godotenv"

	"github.com/matthieukhl/nexsales/internal/cmd"
)

func main() {
	// Provider API keys usually live in .env during development
	_ = godotenv.Load()
	cmd.Execute()
}

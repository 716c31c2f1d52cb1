package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/movingout-dev/movingout/internal/commands"
)

func main() {
	// MOVINGOUT_* settings may come from a .env file in the working directory.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

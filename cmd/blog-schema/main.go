package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"blog-schema/internal/migration/commands"
	_ "blog-schema/migrations"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/angelmondragon/materialhub-backend/cmd/migrate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

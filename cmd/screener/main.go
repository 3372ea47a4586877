package main

import (
	"os"

	"github.com/screenerlabs/equityscreener/cmd/screener/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

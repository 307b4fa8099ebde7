package main

import (
	"os"

	"github.com/bianoble/versync/cmd/versync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

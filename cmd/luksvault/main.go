package main

import (
	"os"

	"github.com/mdelarosa/luksvault/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

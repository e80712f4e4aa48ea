package main

import (
	"os"

	"github.com/Muostafa/Chat-app-system-sub001/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/hiringtools/cv-screener/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

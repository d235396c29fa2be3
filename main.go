package main

import (
	"os"

	"github.com/reachset/occucheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/nithin01010/AI-Teacher/internal/aitcli"
)

func main() {
	if err := aitcli.Execute(); err != nil {
		os.Exit(1)
	}
}

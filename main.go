package main

import (
	"os"

	"github.com/signalnine/promptdome/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

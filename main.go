package main

import (
	"os"

	"github.com/ibbench/ibbench/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

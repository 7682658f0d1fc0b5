package main

import (
	"fmt"
	"os"

	"github.com/openvillage/reportd/internal/cli"
	"github.com/openvillage/reportd/internal/log"
)

func main() {
	log.Init()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

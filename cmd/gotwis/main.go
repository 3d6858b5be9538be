// Package main is the entry point of the gotwis command-line client.
package main

import (
	"fmt"
	"os"

	"github.com/avoronov/gotwis/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

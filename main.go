// Package main provides the entrypoint for ask-relay.
package main

import (
	"os"

	"github.com/isometry/ask-relay/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}

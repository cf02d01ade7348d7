package main

import (
	"fmt"
	"os"

	"github.com/danmuck/animus/cmd/animusctl/cmd"
)

var version = "dev"

func main() {
	cmd.Version = version
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "animusctl: %v\n", err)
		os.Exit(1)
	}
}

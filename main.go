package main

import (
	"os"

	"github.com/moby/sys/reexec"

	"npsh/internal/cli"
)

func main() {
	// a re-executed child sets up its job and never returns here
	if reexec.Init() {
		return
	}
	os.Exit(cli.Execute())
}

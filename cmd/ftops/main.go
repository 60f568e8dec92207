package main

import (
	"os"

	"github.com/psantana5/freqtrade-ops/cmd/ftops/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

package main

import (
	"os"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArgs      = 2
	ExitTransferFailed   = 3
	ExitDestinationWrite = 4
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

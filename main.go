package main

import (
	"os"

	"github.com/oakwood-commons/statelens/cmd"
	"github.com/oakwood-commons/statelens/pkg/logger"
)

func main() {
	exitCode := 0
	if err := cmd.Execute(); err != nil {
		exitCode = 1
	}

	logger.Sync()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

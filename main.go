package main

import (
	"os"

	"automatic-score-batch/cmd"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	_ "update-keeper/cmd"
	"update-keeper/cmd/root"
	"update-keeper/internal/config"
	"update-keeper/internal/logger"
)

func main() {
	// Server mode logs to a file, CLI commands log to stdout only.
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"
	logger.InitLogger(&config.Config.Log, isServerMode)
	if config.LoadWarning != "" {
		logger.Warnf("%s", config.LoadWarning)
	}

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}

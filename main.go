package main

import (
	"os"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/commands"
)

func main() {
	os.Exit(apperrors.ExitCode(commands.Execute()))
}

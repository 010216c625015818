package main

import (
	"os"

	"github.com/langeval/data-ingestion/cmd/dataingester/cmd"
	"github.com/langeval/data-ingestion/internal/common/logging"
)

func main() {
	logging.ConfigureLogging()
	err := cmd.RootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

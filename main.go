// main is the entry point for the adviz CLI.
package main

import (
	"os"

	"github.com/huangsam/adviz/cmd"
	"github.com/huangsam/adviz/internal/contract"
)

func main() {
	err := cmd.Execute()
	if closeErr := cmd.CloseSource(); closeErr != nil {
		contract.LogWarn("Cannot close result source", closeErr)
	}
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Cannot stop profiling", profErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run adviz", err)
	}
	os.Exit(0)
}

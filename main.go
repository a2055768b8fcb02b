// main is the entry point of the insight CLI.
package main

import (
	"github.com/huangsam/insight/cmd"
	"github.com/huangsam/insight/internal/contract"
)

func main() {
	err := cmd.Execute()
	cmd.Teardown()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}

// Package main is the entrypoint for the qualitygate CLI.
package main

import (
	"github.com/huangsam/qualitygate/cmd"
	"github.com/huangsam/qualitygate/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("qualitygate", err)
	}
}

// Package main is the entry point for the hoopsmetrics CLI tool, which parses
// basketball play-by-play logs and computes lineup and plus-minus metrics.
package main

import "github.com/pable/go-hoops-metrics/cmd"

func main() {
	cmd.Execute()
}

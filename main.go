// Package main is the entry point for the herometrics CLI tool, which loads
// Hero Realms match records and computes win/loss statistics and charts.
package main

import "github.com/pable/go-hero-metrics/cmd"

func main() {
	cmd.Execute()
}

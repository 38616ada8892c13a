// FatFit: nutrition and fitness tracking API.
//
// Usage:
//
//	fatfit serve [--config fatfit.yaml] [--verbose] [--quiet]
//	fatfit calories --age 30 --sex male --height 180 --weight 80 --goal "Lose weight"
//	fatfit foods "greek yogurt"
//	fatfit reset-totals
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

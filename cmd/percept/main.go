// Package main provides the Percept CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Percept %s\n", version)
		return
	}

	fmt.Println("Percept - Image Similarity Losses for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See ./examples/compose for evaluating a composed loss chain.")
}

package main

import (
	"fmt"
	"os"
	"os/exec"
)

// main.go at root is a convenience wrapper for running cmd/podium
// in production, use the binary built from cmd/podium directly
func main() {
	cmd := exec.Command("go", "run", "./cmd/podium")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

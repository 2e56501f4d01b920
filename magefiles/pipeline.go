//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI with the given arguments.
func run(args ...string) error {
	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", bin, args, err)
	}
	return nil
}

// Process runs the core pipeline over data/ and prints the result JSON.
func Process() error {
	mg.Deps(Build)
	return run("--data-dir", "data/")
}

// Ingest runs a checksummed ingest of data/ into data/graphs/.
func Ingest() error {
	mg.Deps(Build, Init)
	return run("ingest", "--data-dir", "data/", "--graphs-dir", "data/graphs")
}

// Index rebuilds the record index from data/graphs/.
func Index() error {
	mg.Deps(Build, Init)
	return run("index", "store", "--graphs-dir", "data/graphs", "--index-dir", "data/index")
}

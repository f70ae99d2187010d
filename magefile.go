//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles every executable into ./bin
func Build() error {
	mg.Deps(BuildEvd, BuildRefcheck)
	fmt.Println("Compilation finished")
	return nil
}

func BuildEvd() error {
	fmt.Println("Building evd executable...")
	return goCmd("build", "-o", "./bin/evd", "./evd")
}

func BuildRefcheck() error {
	fmt.Println("Building refcheck executable...")
	return goCmd("build", "-o", "./bin/refcheck", "./refcheck")
}

// Test runs the package tests, HDF5 has to be available to cgo
func Test() error {
	return goCmd("test", "./...")
}

func goCmd(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

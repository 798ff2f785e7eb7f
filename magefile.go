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

// Build compiles every executable.
func Build() error {
	mg.Deps(BuildConverter)
	mg.Deps(BuildMeasureCompression)
	fmt.Println("Compilation finished")
	return nil
}

func BuildConverter() error {
	fmt.Println("Building converter executable...")
	return goCgo("build", "-o", "./bin/converter", "./converter")
}

func BuildMeasureCompression() error {
	fmt.Println("Building measureCompression executable...")
	return goCgo("build", "-o", "./bin/measureCompression", "./measureCompression")
}

// Test runs the packages that do not link against libhdf5.
func Test() error {
	fmt.Println("Running unit tests...")
	cmd := exec.Command("go", "test", "./pkg", "./pkg/pipeline", "./pkg/logging")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// TestAll runs every test, hdf5 writer included.
func TestAll() error {
	fmt.Println("Running all tests...")
	return goCgo("test", "./...")
}

func goCgo(args ...string) error {
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

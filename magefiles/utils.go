//go:build mage

package main

import (
	"fmt"
	"runtime"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

func binaryWithExt(name string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("%s.exe", name)
	}
	return name
}

// Check if the user is on an arm system
func onArm() bool {
	return runtime.GOARCH == "arm64"
}

// Validates that arg is one of validArgs.
// Returns nil if arg is valid, error otherwise.
func validateArg(arg string, validArgs []string) error {
	valid := false
	for _, validArg := range validArgs {
		if arg == validArg {
			valid = true
			break
		}
	}

	if !valid {
		return errors.Errorf("invalid argument: %s, expected one of: %s", arg, validArgs)
	}
	return nil
}

// checkVersion parses the field at index of a tool's version output and checks it against constraint.
func checkVersion(output string, index int, constraint string) error {
	fields := strings.Fields(output)
	if len(fields) <= index {
		return errors.Errorf("unexpected version cmd output: %s", output)
	}
	version, err := semver.NewVersion(strings.Trim(strings.TrimPrefix(fields[index], "v"), ","))
	if err != nil {
		return errors.Errorf("error parsing version: %v", err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Errorf("error parsing constraint: %v", err)
	}
	if !c.Check(version) {
		return errors.Errorf("found version %v but it failed constraint %v", version, c)
	}
	return nil
}

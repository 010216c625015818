//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const golangciLintConstraint = ">= 1.52.0"

func golangciLint(args ...string) error {
	return sh.RunV(binaryWithExt("golangci-lint"), append(args, "--timeout", "10m")...)
}

func golangciLintCheck() error {
	output, err := sh.Output(binaryWithExt("golangci-lint"), "--version")
	if err != nil {
		return errors.Errorf("error running version cmd: %v", err)
	}
	// golangci-lint has version 1.55.2 built with go1.21.3 ...
	return checkVersion(output, 3, golangciLintConstraint)
}

// Run golangci-lint over the module and fix what it can.
func LintFix() error {
	mg.Deps(golangciLintCheck)
	return golangciLint("run", "--fix")
}

// Run golangci-lint over the module.
func CheckLint() error {
	mg.Deps(golangciLintCheck)
	return golangciLint("run")
}

//go:build mage

package main

import (
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const dockerConstraint = ">= 19.0.0"

func dockerBinary() string {
	return binaryWithExt("docker")
}

func dockerOutput(args ...string) (string, error) {
	return sh.Output(dockerBinary(), args...)
}

func dockerRun(args ...string) error {
	return sh.Run(dockerBinary(), args...)
}

func dockerCheck() error {
	output, err := dockerOutput("--version")
	if err != nil {
		return errors.Errorf("error running version cmd: %v", err)
	}
	// Docker version 24.0.5, build ced0996
	return checkVersion(output, 2, dockerConstraint)
}

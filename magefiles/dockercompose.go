//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const dockerComposeConstraint = ">= 2.0.0"

var brokers = []string{"kafka", "pulsar"}

var stores = []string{"clickhouse", "postgres"}

func dockerComposeRun(args ...string) error {
	return sh.Run(dockerBinary(), append([]string{"compose"}, args...)...)
}

func dockerComposeCheck() error {
	output, err := dockerOutput("compose", "version")
	if err != nil {
		return errors.Errorf("error running version cmd: %v", err)
	}
	// Docker Compose version v2.20.2
	return checkVersion(output, 3, dockerComposeConstraint)
}

// StartDependencies starts the given broker and store, plus redis for the dead-letter sink.
func StartDependencies(broker, store string) error {
	mg.Deps(dockerComposeCheck)
	if err := validateArg(broker, brokers); err != nil {
		return err
	}
	if err := validateArg(store, stores); err != nil {
		return err
	}
	// The upstream pulsar image is amd64 only
	if broker == "pulsar" && onArm() {
		os.Setenv("PULSAR_IMAGE", "kezhenxu94/pulsar")
	}
	if err := dockerComposeRun("up", "-d", broker, store, "redis"); err != nil {
		return err
	}
	fmt.Printf("Started %s, %s and redis\n", broker, store)
	return nil
}

// StopDependencies stops and removes every dependency container.
func StopDependencies() error {
	mg.Deps(dockerComposeCheck)
	return dockerComposeRun("down", "--remove-orphans")
}

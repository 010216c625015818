//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const goConstraint = ">= 1.22.0"

const ingesterImage = "data-ingestion:latest"

func goCheck() error {
	output, err := sh.Output(binaryWithExt("go"), "version")
	if err != nil {
		return errors.Errorf("error running version cmd: %v", err)
	}
	// go version go1.22.1 linux/amd64
	return checkVersion(strings.Replace(output, "go version go", "", 1), 0, goConstraint)
}

// Check dependent tools are present and the correct version.
func CheckDeps() error {
	checks := []struct {
		name  string
		check func() error
	}{
		{"docker", dockerCheck},
		{"docker compose", dockerComposeCheck},
		{"go", goCheck},
		{"golangci-lint", golangciLintCheck},
	}
	failures := false
	for _, check := range checks {
		fmt.Printf("Checking %s... ", check.name)
		if err := check.check(); err != nil {
			fmt.Printf("FAILED\nReason: %v\n", err)
			failures = true
		} else {
			fmt.Println("PASSED")
		}
	}
	if failures {
		return errors.New("check(s) failed.")
	}
	return nil
}

// Removes build output and test reports.
func Clean() {
	fmt.Println("Cleaning...")
	for _, path := range []string{"bin", "dist", "test_reports"} {
		os.RemoveAll(path)
	}
}

// Build the data ingester binary into ./bin.
func Build() error {
	mg.Deps(goCheck)
	timeTaken := time.Now()
	env := map[string]string{"CGO_ENABLED": "0"}
	if err := sh.RunWith(env, binaryWithExt("go"), "build", "-o", "bin/"+binaryWithExt("dataingester"), "./cmd/dataingester"); err != nil {
		return err
	}
	fmt.Println("Time to build:", time.Since(timeTaken))
	return nil
}

// Build the data ingester docker image.
func BuildDocker() error {
	mg.Deps(dockerCheck)
	return dockerRun("build", "-t", ingesterImage, ".")
}

// Run the data ingester locally against the given broker and store.
func LocalDev(broker, store string) error {
	mg.Deps(Build)
	if err := StartDependencies(broker, store); err != nil {
		return err
	}
	binary := "bin/" + binaryWithExt("dataingester")
	env := map[string]string{"BROKER": broker, "STORE": store}
	config := "--config=config/dataingester/local.yaml"
	if err := sh.RunWith(env, binary, "migrateDatabase", config); err != nil {
		return err
	}
	return sh.RunWith(env, binary, "run", config)
}

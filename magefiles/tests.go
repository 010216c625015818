//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	gotestsumModule = "gotest.tools/gotestsum@v1.8.2"
	testReportDir   = "test_reports"
)

// gotestsum installs gotestsum into ./bin unless it is already there and returns its path.
func gotestsum() (string, error) {
	bin, err := filepath.Abs("bin")
	if err != nil {
		return "", err
	}
	path := filepath.Join(bin, binaryWithExt("gotestsum"))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return path, sh.RunWith(map[string]string{"GOBIN": bin}, binaryWithExt("go"), "install", gotestsumModule)
}

// Run the unit tests with the race detector, writing junit and coverage reports to test_reports.
func Tests() error {
	mg.Deps(goCheck)
	runner, err := gotestsum()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(testReportDir, os.ModePerm); err != nil {
		return err
	}
	return sh.RunV(runner,
		"--format", "short-verbose",
		"--junitfile", filepath.Join(testReportDir, "unit-tests.xml"),
		"--",
		"-race",
		"-coverprofile="+filepath.Join(testReportDir, "coverage.out"),
		"./cmd/...",
		"./internal/...",
	)
}

//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every test of the module.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests with the race detector.
func (Test) Race() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "./engine/...", "./testbed/..."), withEnv("CGO_ENABLED=1"), withStream()); err != nil {
		return err
	}
	return nil
}

//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module dependencies.
func (Build) Tidy() error {
	return goTidy()
}

// Builds the testbed binary.
func (Build) Testbed() error {
	mg.Deps(Build.Tidy)
	if _, err := executeCmd("go", withArgs("build", "-o", "anima-testbed", "."), withDir("."), withStream()); err != nil {
		return err
	}
	return nil
}

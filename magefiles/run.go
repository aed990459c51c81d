//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with anima.toml, reloading it on change.
func (Run) Testbed() error {
	mg.Deps(Test.All)
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", "anima.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

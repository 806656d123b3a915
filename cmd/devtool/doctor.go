package main

import (
	"errors"
	"fmt"
)

// DoctorCommand runs every offline and online check and reports them together
// instead of stopping at the first failure.
type DoctorCommand struct {
	checks []Command
}

func (c *DoctorCommand) Name() string {
	return "doctor"
}

func (c *DoctorCommand) Description() string {
	return "Run check-env, validate-items, check-db and dead-letters"
}

func (c *DoctorCommand) Run(args []string) error {
	checks := c.checks
	if checks == nil {
		checks = []Command{&CheckEnvCommand{}, &ValidateItemsCommand{}, &CheckDBCommand{}, &DeadLettersCommand{}}
	}

	var failed []error
	for _, check := range checks {
		if err := check.Run(nil); err != nil {
			PrintError("%s: %v", check.Name(), err)
			failed = append(failed, fmt.Errorf("%s: %w", check.Name(), err))
		}
	}

	PrintHeader("Doctor summary")
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d checks failed: %w", len(failed), len(checks), errors.Join(failed...))
	}
	PrintSuccess("%d checks passed", len(checks))
	return nil
}

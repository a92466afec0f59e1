// Package main is the entry point for backup-service.
package main

import (
	"errors"
	"fmt"
	"os"

	"mysql-backup-service/internal/domain"
)

// errPartialFailure marks a run in which at least one profile backup failed
// while the process itself completed. It maps to its own exit code so cron
// wrappers can tell it apart from configuration problems.
var errPartialFailure = errors.New("one or more backups failed")

const (
	exitOK      = 0
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	os.Exit(execute())
}

func execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	if errors.Is(err, errPartialFailure) {
		return exitFailure
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if domain.IsConfigError(err) {
		return exitConfig
	}
	return exitFailure
}

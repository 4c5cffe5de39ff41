// Package model defines the domain types and value objects for the
// icongen CLI.
//
// This package contains pure data structures with no external dependencies:
// the variant request parsed from a CSV row, the resolved output plan for
// a variant, the per-batch summary, and the error taxonomy used to
// classify per-item failures.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model

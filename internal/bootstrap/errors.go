package bootstrap

import "errors"

// Sentinel errors for bootstrap and reset.
var (
	// ErrPasswordMismatch is returned when the two prompted passwords differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrDuplicateAdmin is returned when the configured username already has an admin row.
	ErrDuplicateAdmin = errors.New("duplicate admin")

	// ErrInterrupted is returned when the operator cancels before commit.
	ErrInterrupted = errors.New("interrupted")

	// ErrResetFailed is returned when the existing store could not be removed.
	ErrResetFailed = errors.New("reset failed")

	// ErrNotBootstrapped is returned by read-only commands when there is no store yet.
	ErrNotBootstrapped = errors.New("database has not been bootstrapped")
)

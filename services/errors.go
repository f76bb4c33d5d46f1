package services

import "errors"

// Sentinel errors for the reward core. Handlers map these onto HTTP statuses;
// ErrAlreadyGranted never surfaces to the client as a failure because losing
// a grant race is a normal outcome, not an error.
var (
	// ErrInvalidReason means the reward reason or activity kind is outside the
	// enumerated set. This is a caller bug and is never retried.
	ErrInvalidReason = errors.New("unrecognized reward reason")

	// ErrAlreadyGranted means a log already exists for the same
	// (user, project, reason, day) tuple.
	ErrAlreadyGranted = errors.New("reward already granted today")

	// ErrNotFound means a referenced user, project, memo or house row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyMember means the user already belongs to the project.
	ErrAlreadyMember = errors.New("user already belongs to this project")

	// ErrConstraintViolation covers team-size and date-range violations.
	ErrConstraintViolation = errors.New("constraint violation")
)

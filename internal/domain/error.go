package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Pipeline errors. ErrClaimConflict is not a failure: the job is already
	// owned by another execution and the caller skips it silently.
	ErrClaimConflict       = errors.New("job already claimed")
	ErrProviderSubmission  = errors.New("provider submission failed")
	ErrProvider            = errors.New("video provider error")
	ErrAnalysisTimeout     = errors.New("analysis timed out")
	ErrQualitativeAnalysis = errors.New("qualitative analysis failed")
	ErrRateLimited         = errors.New("rate limit exceeded")

	// Infra-level errors surfaced through repositories
	ErrReadDatabaseRow    = errors.New("could not read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")
)

package machine

import "errors"

// Errors returned by state accessors. All of them are fatal for the running
// program, callers are expected to stop stepping once one is returned.
var (
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrFetchOutOfBounds  = errors.New("instruction fetch out of bounds")
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
	ErrInvalidKey        = errors.New("invalid key")
	ErrProgramTooLarge   = errors.New("program too large")
)

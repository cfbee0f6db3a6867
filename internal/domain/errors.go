package domain

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	ErrCreatorNotEligible      = errors.New("creator not eligible")
	ErrAliasTaken              = errors.New("alias taken")
	ErrCodeGenerationExhausted = errors.New("link code generation exhausted")
	ErrLinkUnavailable         = errors.New("link unavailable")
	ErrClickAlreadyConverted   = errors.New("click already converted")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrTransactionImmutable    = errors.New("transaction immutable")
)

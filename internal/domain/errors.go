package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrPlanInactive      = errors.New("plan inactive")
	ErrInvalidInput      = errors.New("invalid questionnaire")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrInvalidDocument   = errors.New("invalid document")
)

package domain

import "errors"

var (
	ErrSurveyNotFound   = errors.New("survey not found")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidSurveyID  = errors.New("invalid survey id")
	ErrAlreadyResponded = errors.New("already responded to this survey")
	ErrNotEligible      = errors.New("not eligible for this survey")
	ErrForbidden        = errors.New("operation not allowed")
	ErrUserNotFound     = errors.New("user not found")
	ErrInternal         = errors.New("internal server error")
)

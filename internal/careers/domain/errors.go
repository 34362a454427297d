package domain

import "github.com/focitech/focitech-backend/internal/apperr"

var (
	ErrJobNotFound         = apperr.NotFound("job opening not found")
	ErrJobClosed           = apperr.NotFound("job opening not found or closed")
	ErrApplicationNotFound = apperr.NotFound("application not found")
	ErrNoChanges           = apperr.InvalidArgument("no changes provided")
)

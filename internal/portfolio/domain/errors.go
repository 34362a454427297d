package domain

import "github.com/focitech/focitech-backend/internal/apperr"

var (
	ErrProjectNotFound = apperr.NotFound("project not found")
	ErrNoChanges       = apperr.InvalidArgument("no changes provided")
)

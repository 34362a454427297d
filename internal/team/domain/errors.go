package domain

import "github.com/focitech/focitech-backend/internal/apperr"

var (
	ErrMemberNotFound = apperr.NotFound("team member not found")
	ErrNoChanges      = apperr.InvalidArgument("modification request is empty")
)

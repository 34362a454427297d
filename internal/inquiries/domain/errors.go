package domain

import "github.com/focitech/focitech-backend/internal/apperr"

var (
	ErrInquiryNotFound = apperr.NotFound("inquiry not found")
	ErrNoChanges       = apperr.InvalidArgument("no changes provided")
)

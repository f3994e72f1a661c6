package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound                 = errors.New("entity not found")
	ErrPlanNotFound             = errors.New("plan not found")
	ErrValidation               = errors.New("validation failed")
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrPaymentDeclined          = errors.New("payment declined")
	ErrSignatureInvalid         = errors.New("payment signature invalid")
	ErrNoActiveSubscription     = errors.New("no active subscription")
	ErrActiveSubscriptionExists = errors.New("an active subscription already exists for this email")
	ErrForbidden                = errors.New("forbidden")

	// Infrastructure errors surfaced through repositories
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")
)

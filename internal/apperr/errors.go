// Package apperr holds the error taxonomy shared by the ledger, the goal
// tracker and the threshold evaluator. Callers compare with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound is returned when an entity is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateBudget is returned when a budget already exists for the
	// same user, category, month and year.
	ErrDuplicateBudget = errors.New("duplicate budget")

	// ErrConcurrentUpdateConflict is returned when a goal was changed by
	// another unit of work between read and write.
	ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")

	// ErrNotificationDeliveryFailed wraps gateway failures. It never aborts a pass.
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")

	// ErrInvalidStatusTransition is returned when a goal status change is not
	// allowed, e.g. moving a completed goal back to active or completing one by hand.
	ErrInvalidStatusTransition = errors.New("invalid goal status transition")
)

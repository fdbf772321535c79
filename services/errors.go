package services

import "errors"

// Engine error kinds. Handlers translate these to HTTP statuses; nothing in
// the services layer retries on them.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateOrder    = errors.New("an order for this item is already pending or approved")
	ErrInvalidTransition = errors.New("order is not in a state that allows this action")
	ErrNotEntitled       = errors.New("no entitlement for this content")
	ErrValidation        = errors.New("validation failed")
)

// ErrorKind maps an engine error to its stable wire name.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrDuplicateOrder):
		return "DuplicateOrder"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, ErrNotEntitled):
		return "NotEntitled"
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	}
	return "Internal"
}

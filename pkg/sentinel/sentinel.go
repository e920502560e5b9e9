// Package sentinel holds the infrastructure-level error values stores and
// collaborators report. Services translate these into domain codes at the
// boundary.
package sentinel

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record already exists")
	ErrInvalidState      = errors.New("record in invalid state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("backend unavailable")
)

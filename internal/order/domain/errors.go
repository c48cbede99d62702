package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable class of a domain failure. Every kind is
// a recoverable caller condition, never a process fault.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindSoldOut           ErrorKind = "sold_out"
	KindInsufficientStock ErrorKind = "insufficient_inventory"
	KindKitchenDown       ErrorKind = "kitchen_down"
)

// Error carries the kind alongside a human-readable message so boundaries can
// branch on kind without parsing text.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func ErrSoldOut(p Pizza) *Error {
	return &Error{Kind: KindSoldOut, Message: fmt.Sprintf("pizza_sold_out: %s", p)}
}

func ErrInsufficientStock(p Pizza, requested, available int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient_inventory: pizza=%s requested=%d available=%d", p, requested, available),
	}
}

func ErrKitchenDown() *Error {
	return &Error{Kind: KindKitchenDown, Message: "kitchen_down"}
}

// KindOf extracts the kind from err, reporting false for non-domain errors.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

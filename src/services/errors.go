// Package services holds the business rules behind each route group. Handlers
// translate *Error kinds into status codes; any other error is a server error.
package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is an expected failure whose message is safe to return to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func validation(msg string) error   { return &Error{Kind: KindValidation, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func notFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func conflict(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }

// KindOf returns the kind of an *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

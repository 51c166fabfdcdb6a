package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the domain can produce so that the
// HTTP layer can map it to a status code without string matching.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindConflict
	KindInvalidState
	KindValidation
	KindForbidden
)

// DomainError carries a kind plus a user-facing message. Services never
// wrap storage errors into a DomainError — those surface as-is and map to 500.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func NotFoundError(entity, id string) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s '%s' no encontrado", entity, id)}
}

func ConflictError(msg string) error {
	return &DomainError{Kind: KindConflict, Message: msg}
}

func InvalidStateError(msg string) error {
	return &DomainError{Kind: KindInvalidState, Message: msg}
}

func ValidationError(msg string) error {
	return &DomainError{Kind: KindValidation, Message: msg}
}

func ForbiddenError(msg string) error {
	return &DomainError{Kind: KindForbidden, Message: msg}
}

// KindOf returns the kind of err, or 0 when err is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

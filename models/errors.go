package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type FaultKind uint8

const (
	FaultUnexpected FaultKind = iota
	FaultRequestFormat
	FaultValidation
	FaultNotFound
	FaultConstraint
)

var ErrNotFound = errors.New("not found")

// Fault is an error with a kind the HTTP layer can map to a status code
type Fault struct {
	Kind    FaultKind
	Message string
	Err     error
}

func NewFault(kind FaultKind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

func WrapFault(kind FaultKind, message string, err error) *Fault {
	return &Fault{Kind: kind, Message: message, Err: err}
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// KindOf classifies any error returned by this package or gorm
func KindOf(err error) FaultKind {
	var f *Fault
	switch {
	case err == nil:
		return FaultUnexpected
	case errors.As(err, &f):
		return f.Kind
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return FaultNotFound
	case IsConstraintError(err):
		return FaultConstraint
	}
	return FaultUnexpected
}

// IsConstraintError reports integrity violations (unique, foreign key, not null)
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint") || strings.Contains(msg, "duplicate entry")
}

// IsDuplicateError reports a unique index violation
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

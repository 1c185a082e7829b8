package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
	ErrReportNotFound  = fmt.Errorf("report %w", ErrNotFound)

	ErrReportExists  = fmt.Errorf("%w: a pending report already exists for this element", ErrConflict)
	ErrReportDecided = fmt.Errorf("%w: report already decided", ErrConflict)

	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrToxicContent = errors.New("content rejected as toxic")
)

// ToxicContentError carries the categories that caused a rejection.
type ToxicContentError struct {
	Tags []string
}

func (e *ToxicContentError) Error() string {
	return ErrToxicContent.Error() + ": " + strings.Join(e.Tags, ", ")
}

func (e *ToxicContentError) Is(target error) bool {
	return target == ErrToxicContent
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

package complaints

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"
)

var (
	errEmptyText     = errors.New("complaint text is required")
	errTextTooLong   = errors.New("complaint text too long")
	errInvalidIP     = errors.New("invalid client ip")
	errInvalidStatus = errors.New("invalid status")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

type Validator struct {
	maxTextLen int
}

func NewValidator(maxTextLen int) *Validator {
	return &Validator{maxTextLen: maxTextLen}
}

// ValidateSubmission checks a submission before any enrichment call is made
// and returns the trimmed text. Over-length text is rejected, not truncated.
func (v *Validator) ValidateSubmission(text, clientIP string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ValidationError{reason: errEmptyText}
	}
	// Character count, not bytes; complaint text is often non-ASCII.
	if v.maxTextLen > 0 && utf8.RuneCountInString(trimmed) > v.maxTextLen {
		return "", ValidationError{reason: fmt.Errorf("%w: max %d characters", errTextTooLong, v.maxTextLen)}
	}

	if ip := strings.TrimSpace(clientIP); ip != "" && net.ParseIP(ip) == nil {
		return "", ValidationError{reason: fmt.Errorf("%w: %q", errInvalidIP, clientIP)}
	}

	return trimmed, nil
}

// ValidateStatusTransition admits only the open -> closed transition;
// complaints are never reopened.
func (v *Validator) ValidateStatusTransition(status string) error {
	if status != StatusClosed {
		return ValidationError{reason: fmt.Errorf("%w: status must be %q", errInvalidStatus, StatusClosed)}
	}
	return nil
}

// ValidateListFilter rejects unknown status values; everything else is
// normalised by the service.
func (v *Validator) ValidateListFilter(f Filter) error {
	if f.Status != "" && f.Status != StatusOpen && f.Status != StatusClosed {
		return ValidationError{reason: fmt.Errorf("%w: status must be %q or %q", errInvalidStatus, StatusOpen, StatusClosed)}
	}
	return nil
}

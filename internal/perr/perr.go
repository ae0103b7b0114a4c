// Package perr defines the error taxonomy shared by the sequence builder, the
// loop mechanism and the media collaborators.
//
// Three kinds exist:
//   - ValidationError: an authoring mistake (slot gaps, empty collections).
//   - NotFoundError: a referenced file, workspace or backdrop is absent.
//   - MalformedStateError: the loop's carried state does not have the
//     expected shape. This is a wiring error and is never recovered.
//
// None of them are retried. Callers use errors.As to classify.
package perr

import (
	"errors"
	"fmt"
)

// ValidationError reports an authoring mistake found while constructing the
// Play tree.
type ValidationError struct {
	// Tier names the collection that failed validation, e.g. "act" or "scene beat".
	Tier string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Tier == "" {
		return "validation: " + e.Msg
	}
	return fmt.Sprintf("validation (%s): %s", e.Tier, e.Msg)
}

// Validationf builds a ValidationError for the given tier.
func Validationf(tier, format string, args ...any) error {
	return &ValidationError{Tier: tier, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent file, workspace or backdrop.
type NotFoundError struct {
	What string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

// NotFound builds a NotFoundError.
func NotFound(what, path string) error {
	return &NotFoundError{What: what, Path: path}
}

// MalformedStateError reports loop state that does not match the expected
// shape (e.g. a queue holding something other than batches).
type MalformedStateError struct {
	Msg string
}

func (e *MalformedStateError) Error() string {
	return "malformed loop state: " + e.Msg
}

// Malformedf builds a MalformedStateError.
func Malformedf(format string, args ...any) error {
	return &MalformedStateError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// IsMalformed reports whether err wraps a MalformedStateError.
func IsMalformed(err error) bool {
	var v *MalformedStateError
	return errors.As(err, &v)
}

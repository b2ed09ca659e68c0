package model

import "errors"

// ErrNotFound is returned when a cache token does not resolve to a
// stored analysis.
var ErrNotFound = errors.New("analysis token not found")

// InputError signals an empty or unreadable source table. The caller
// has to fix the input; the operation is never retried.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// NewInputError builds an InputError with the given message.
func NewInputError(msg string) error { return &InputError{Msg: msg} }

// SchemaError signals that a required column (deal identifier or
// quantity) could not be resolved in a source table.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string { return e.Msg }

// NewSchemaError builds a SchemaError with the given message.
func NewSchemaError(msg string) error { return &SchemaError{Msg: msg} }

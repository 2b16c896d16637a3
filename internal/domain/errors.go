package domain

import "errors"

var (
	// ErrUnknownCommand is returned when a command name is not in the registry
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingRelation is returned when an input relation file cannot be opened
	ErrMissingRelation = errors.New("missing input relation")

	// ErrMissingColumn is returned when a relation header lacks a required column
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow is returned when a relation row cannot be parsed
	ErrMalformedRow = errors.New("malformed row")
)

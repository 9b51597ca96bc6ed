package ast

import "errors"

var (
	// ErrSyntax is wrapped by all errors returned from the Parse functions.
	ErrSyntax = errors.New("syntax error")

	// ErrInvalidNode is returned when decoding JSON that does not describe
	// a well-formed node.
	ErrInvalidNode = errors.New("invalid node")

	// ErrKindMismatch is returned when a replacement does not match the
	// node type it replaces.
	ErrKindMismatch = errors.New("node kind mismatch")
)

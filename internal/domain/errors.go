package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrDuplicateOperation = errors.New("duplicate operation")
)

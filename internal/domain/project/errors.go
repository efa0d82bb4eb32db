package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrReorderFailed indicates at least one order write of a batch failed.
	ErrReorderFailed = errors.New("reorder failed")
)

package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrUnauthorized indicates that the acting user is not permitted to perform the action.
	ErrUnauthorized = errors.New("action not authorized")
	// ErrDuplicateUsername indicates that the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrStorage indicates a file-store write/delete failure, including path-traversal rejection.
	ErrStorage = errors.New("file storage error")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)

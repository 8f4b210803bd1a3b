package library

import "errors"

var (
	ErrLibraryNotFound = errors.New("library not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidStatus   = errors.New("invalid library status")
)

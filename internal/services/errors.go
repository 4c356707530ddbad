package services

import "errors"

var (
	// ErrNoInput is returned when an Input carries neither a reader nor a reference.
	ErrNoInput = errors.New("no upload or source reference given")

	// ErrNoLoader is returned when an Input names a reference but the service
	// was built without a WorkbookLoader.
	ErrNoLoader = errors.New("source references are not supported")
)

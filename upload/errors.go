package upload

import "errors"

var (
	// ErrTransportRequired is returned when a backend transport is not provided.
	ErrTransportRequired = errors.New("backend transport required")

	// ErrSourceNotFound is returned when no source matches the given file.
	ErrSourceNotFound = errors.New("no matching source found")

	// ErrNoFiles is returned when a batch upload is given no files.
	ErrNoFiles = errors.New("no files to upload")
)

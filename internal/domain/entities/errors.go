package entities

import "errors"

var (
	// ErrConfiguration marks a run that cannot start: a required tool is missing or the
	// version labels do not describe a release.
	ErrConfiguration = errors.New("configuration error")

	// ErrSourceUnavailable marks a manifest snapshot that could not be obtained from any source.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrPath marks a working directory or manifest path that does not exist.
	ErrPath = errors.New("path error")
)

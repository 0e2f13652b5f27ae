package cpt

import "errors"

var (
	// ErrAlreadyExists is returned by create-mode registration when the
	// host already knows the name.
	ErrAlreadyExists = errors.New("cpt: already registered")

	// ErrNotFound is returned by extend-mode registration when the host
	// does not know the name.
	ErrNotFound = errors.New("cpt: not registered")

	// ErrAlreadyFinalized is returned when Register is called twice on the
	// same builder.
	ErrAlreadyFinalized = errors.New("cpt: builder already finalized")
)

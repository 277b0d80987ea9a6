package domain

import "errors"

// ErrNilDocument is returned when an operation that needs a document gets none.
var ErrNilDocument = errors.New("nil document")

// ErrDraftNotFound is returned when no draft exists for a document.
var ErrDraftNotFound = errors.New("draft not found")

// ErrVersionNotFound is returned when a document has no published version.
var ErrVersionNotFound = errors.New("version not found")

// ErrVersionExists is returned when a version number is already taken.
var ErrVersionExists = errors.New("version already exists")

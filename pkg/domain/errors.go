package domain

import "errors"

// ErrOutOfRange is returned when a scene index outside [0, Len) is requested directly from a Catalog.
var ErrOutOfRange = errors.New("scene index out of range")

// ErrEmptyCatalog is returned when a catalog is built without scenes.
var ErrEmptyCatalog = errors.New("catalog has no scenes")

// ErrDuplicateScene is returned when two scenes share the same name.
var ErrDuplicateScene = errors.New("duplicate scene name")

// ErrInvalidScene is returned when a scene descriptor is missing its name.
var ErrInvalidScene = errors.New("invalid scene")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidChoice is returned when a value is not one of the options offered by a scene.
var ErrInvalidChoice = errors.New("invalid choice")

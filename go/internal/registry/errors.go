package registry

import "errors"

// ErrGroupNotFound is returned for any operation against an unknown group code.
var ErrGroupNotFound = errors.New("group not found")

// ErrUserNotFound is returned when a user id is unknown, e.g. a location
// update arriving before the join completed or after a registry reset.
// Callers must treat it as non-fatal.
var ErrUserNotFound = errors.New("user not found")

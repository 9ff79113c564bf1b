package repositories

import "errors"

// ErrNotFound is returned when a referenced document does not exist.
// Handlers translate it to a 404 response.
var ErrNotFound = errors.New("not found")

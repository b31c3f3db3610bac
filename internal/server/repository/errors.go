package repository

import "errors"

// ErrNotFound indicates the referenced record id does not exist.
var ErrNotFound = errors.New("record not found")

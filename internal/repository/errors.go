package repository

import "errors"

// ErrRelatedNotFound is returned when referenced ids do not exist or are not
// owned by the acting teacher. Services map it to a client error.
var ErrRelatedNotFound = errors.New("related records not found")

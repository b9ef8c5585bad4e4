package storage

import "errors"

// ErrInvalidArgument is returned for caller errors that are not worth a
// round trip to the database, e.g. a negative height.
var ErrInvalidArgument = errors.New("invalid argument")

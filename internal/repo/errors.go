package repo

import "errors"

// ErrNotFound is returned by lookups whose subject does not exist. Consumers
// use it to tell permanent failures from transient datastore errors.
var ErrNotFound = errors.New("not found")

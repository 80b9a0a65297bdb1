package account

import "errors"

// ErrAccountNotFound is returned when no account exists for the given key.
var ErrAccountNotFound = errors.New("account not found")

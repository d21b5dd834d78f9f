package assoc

import "errors"

// ErrKeyNotFound is returned by At/MustGet-style accessors when the
// requested key is absent.
var ErrKeyNotFound = errors.New("assoc: key not found")

package memory

import "errors"

var ErrEmptyKey = errors.New("empty key")

package pipeline

import "errors"

// ErrCancelled is returned when the selector yields no file.
var ErrCancelled = errors.New("no file selected")

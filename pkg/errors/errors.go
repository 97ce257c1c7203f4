// ================== pkg/errors/errors.go =================
package errors

import "errors"

var (
	ErrNotFound   = errors.New("todo not found")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage unavailable")
)

package types

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and handlers. Check with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrVersion      = errors.New("E_VERSION")
	ErrInvalidInput = errors.New("invalid input")
)

// CustomError carries an HTTP status and an error type to the global error handler
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

package company

import (
	"errors"
	"fmt"
)

// ErrEmptyInput indicates a blank company field in the request.
var ErrEmptyInput = errors.New("company name required")

// ErrNotFound indicates the input could not be resolved to a known company,
// or that no cached report exists for a key.
var ErrNotFound = errors.New("company not found")

// NotFoundError carries the original user input so the HTTP layer can return
// a correctable message. It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Input string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not identify company %q. Please check the spelling and try again", e.Input)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

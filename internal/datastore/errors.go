package datastore

import (
	"errors"
	"fmt"
)

// Failure kinds carried by a LoadError.
var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrMissingColumn    = errors.New("missing required column")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidValue     = errors.New("invalid value")
)

// LoadError reports why a dataset could not be loaded from a source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(source string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Source: source, Err: err}
}

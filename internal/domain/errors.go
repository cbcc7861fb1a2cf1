package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCountry is returned for codes or slugs outside the country vocabulary.
	ErrUnknownCountry = errors.New("unknown country")

	// ErrUnknownCategory is returned for category names that are not served.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoData means no usable snapshot exists. It is a valid empty result, not a failure.
	ErrNoData = errors.New("no data")
)

// ParseError reports a snapshot file that is not valid JSON or does not match its category's shape.
type ParseError struct {
	Category Category
	Country  string
	Path     string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s snapshot %s for %s: %v", e.Category, e.Path, e.Country, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err should surface as "not found" to callers.
func IsNotFound(err error) bool {
	var perr *ParseError
	return errors.Is(err, ErrNoData) || errors.Is(err, ErrUnknownCountry) || errors.As(err, &perr)
}

package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for every failure the services can report. Handlers map
// these to HTTP statuses; anything else is an infrastructure failure.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	ErrUnknownIngredient   = errors.New("unknown ingredient")
	ErrDuplicateIngredient = errors.New("ingredients should be unique")
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrMissingTags         = errors.New("need at least one tag")
	ErrDuplicateTag        = errors.New("tags should be unique")
	ErrInvalidCookingTime  = errors.New("cooking time must be a positive integer")

	ErrAlreadyFavorited = errors.New("recipe already in favorites")
	ErrNotFavorited     = errors.New("recipe is not in favorites")
	ErrAlreadyInCart    = errors.New("recipe already in shopping cart")
	ErrNotInCart        = errors.New("recipe is not in shopping cart")

	ErrAlreadyFollowing = errors.New("already subscribed")
	ErrNotFollowing     = errors.New("not subscribed")
	ErrSelfFollow       = errors.New("cannot subscribe to yourself")

	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidLogin = errors.New("invalid credentials")
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError attributes a validation failure to an input field while
// keeping the sentinel reachable through errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err carries a field-attributed validation
// failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

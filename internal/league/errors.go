package league

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidComposition = errors.New("invalid team composition")
	ErrInvalidScore       = errors.New("invalid score")
	ErrConflict           = errors.New("conflict")
	ErrInvalidPlaces      = errors.New("invalid places")
	ErrValidation         = errors.New("validation failed")
)

// IsInputError reports whether err was caused by bad caller input rather than a failure
// of the store.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidComposition) ||
		errors.Is(err, ErrInvalidScore) ||
		errors.Is(err, ErrInvalidPlaces) ||
		errors.Is(err, ErrValidation)
}

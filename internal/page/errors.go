package page

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidEditSecret is the authorization failure raised by Update when no page
	// owns the supplied secret.
	ErrInvalidEditSecret = eris.New("invalid edit secret")

	// ErrUniqueConstraint is reported by a Store when a slug or secret already exists.
	ErrUniqueConstraint = eris.New("unique constraint violated")

	// ErrNotFound is reported by a Store when a keyed write matched no row.
	ErrNotFound = eris.New("page not found")

	// ErrIdentityExhausted means every generated slug/secret pair collided.
	ErrIdentityExhausted = eris.New("could not allocate a unique page identity")
)

// ValidationError lists the input fields that were rejected before reaching the store.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "invalid page input"
	}
	return "invalid page input: " + e.Errors.Error()
}

// Fields flattens the per-field messages, keyed by the JSON field name.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for name, err := range e.Errors {
		if err != nil {
			fields[name] = err.Error()
		}
	}
	return fields
}

func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	if errs, ok := err.(validation.Errors); ok {
		return &ValidationError{Errors: errs}
	}
	return eris.Wrap(err, "validating page input")
}

package booking

import (
	"errors"
	"strconv"
)

// ErrTimeout is wrapped by storeError when a mutation could not enter its
// center's gate within the configured wait.
var ErrTimeout = errors.New("timed out waiting for center")

// validationError signals malformed input (bad id, missing fields).
type validationError struct{ msg string }

func (e validationError) Error() string { return "invalid request: " + e.msg }

// IsValidation reports whether err indicates malformed input.
func IsValidation(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

type notFoundError struct{ id int64 }

func (e notFoundError) Error() string { return "center not found: " + strconv.FormatInt(e.id, 10) }

// IsNotFound reports whether err indicates an unknown center id.
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

// noSlotsError is the conflict outcome of Book.
type noSlotsError struct{ id int64 }

func (e noSlotsError) Error() string {
	return "no available slots: center " + strconv.FormatInt(e.id, 10)
}

// IsNoSlots reports whether err indicates the center has no slots left.
func IsNoSlots(err error) bool {
	var ns noSlotsError
	return errors.As(err, &ns)
}

// storeError wraps persistence failures, including gate timeouts.
type storeError struct {
	op  string
	err error
}

func (e storeError) Error() string { return e.op + ": " + e.err.Error() }
func (e storeError) Unwrap() error { return e.err }

// IsStoreError reports whether err is a persistence failure or timeout.
func IsStoreError(err error) bool {
	var se storeError
	return errors.As(err, &se)
}

// IsTimeout reports whether err came from a gate wait that ran out.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

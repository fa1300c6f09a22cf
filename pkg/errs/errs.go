// Package errs holds the error kinds every service reports. Callers classify
// with errors.Is against the sentinels; the message carries the detail.
package errs

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrUnauthorized     = errors.New("unauthorized")

	// ErrStale is returned by repositories when an optimistic write lost a race.
	// Services retry on it and never surface it.
	ErrStale = errors.New("stale record")
)

func NotFoundf(format string, args ...any) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

func InvalidArgumentf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func PermissionDeniedf(format string, args ...any) error {
	return errors.Wrapf(ErrPermissionDenied, format, args...)
}

func Conflictf(format string, args ...any) error {
	return errors.Wrapf(ErrConflict, format, args...)
}

func InvalidStatef(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidState, format, args...)
}

func Unauthorizedf(format string, args ...any) error {
	return errors.Wrapf(ErrUnauthorized, format, args...)
}

// Kind returns the sentinel err belongs to, or nil for unclassified errors.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidArgument, ErrPermissionDenied, ErrConflict, ErrInvalidState, ErrUnauthorized, ErrStale} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

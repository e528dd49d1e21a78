package gpu

import "github.com/cockroachdb/errors"

// Every failure raised while negotiating carries exactly one of these marks.
var (
	// ErrEnumeration means a platform query reported failure, not merely an empty result.
	ErrEnumeration = errors.New("enumeration failure")
	// ErrUnmetRequirement means a required extension, layer or capability is absent.
	ErrUnmetRequirement = errors.New("unmet requirement")
	// ErrNoSuitableAdapter means every enumerated adapter was rejected.
	ErrNoSuitableAdapter = errors.New("no suitable adapter")
	// ErrResourceCreation means creating a native resource failed.
	ErrResourceCreation = errors.New("resource creation failure")
)

func enumerationError(err error, what string) error {
	return errors.Mark(errors.Wrapf(err, "could not enumerate %s", what), ErrEnumeration)
}

func creationError(err error, resource string) error {
	return errors.Mark(errors.Wrapf(err, "could not create %s", resource), ErrResourceCreation)
}

func requirementError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnmetRequirement)
}

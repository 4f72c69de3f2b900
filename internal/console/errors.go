package console

import "errors"

// User-facing validation errors. Each prints as "** <message> **".
var (
	ErrClassMissing   = errors.New("class name missing")
	ErrClassUnknown   = errors.New("class doesn't exist")
	ErrIDMissing      = errors.New("instance id missing")
	ErrNoInstance     = errors.New("no instance found")
	ErrAttrMissing    = errors.New("attribute name missing")
	ErrValueMissing   = errors.New("value missing")
	ErrInvalidValue   = errors.New("invalid value")
	ErrInvalidCommand = errors.New("invalid command")
)

// validationErrors are reported by their message alone.
var validationErrors = []error{
	ErrClassMissing,
	ErrClassUnknown,
	ErrIDMissing,
	ErrNoInstance,
	ErrAttrMissing,
	ErrValueMissing,
	ErrInvalidValue,
	ErrInvalidCommand,
}

// validation returns the validation error err wraps, or nil.
func validation(err error) error {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return v
		}
	}
	return nil
}

package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorValidation marks caller errors rejected before any query runs
// (unknown search field, malformed dates, missing CSV columns).
var ErrorValidation = errors.New("validation error")

func ValidationError(msg string) error {
	return errors.Join(ErrorValidation, errors.New(msg))
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrorValidation)
}

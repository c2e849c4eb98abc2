package dlpfw

import "errors"

var (
	ErrorAllocation        = errors.New("Buffer size limit exceeded")
	ErrorSignatureMismatch = errors.New("Flash table signature not found")
	ErrorNotInitialized    = errors.New("Splash catalog has not been initialized")
	ErrorUnsupportedFormat = errors.New("Unsupported splash image format")
	ErrorCapacityExceeded  = errors.New("Splash image does not fit")
	ErrorNoSplashImage     = errors.New("Splash slot is empty")
	ErrorInvalidIndex      = errors.New("Splash index out of range")
	ErrorOutOfRange        = errors.New("Address is outside the firmware image")
	ErrorNoCatalog         = errors.New("No splash catalog found")
	ErrorWrongParams       = errors.New("Invalid parameters")
)

/* Keeps the cause while matching ErrorUnsupportedFormat */
type formatError struct {
	err error
}

func unsupportedFormat(err error) error {
	return formatError{err: err}
}

func (e formatError) Error() string {
	return ErrorUnsupportedFormat.Error() + ": " + e.err.Error()
}

func (e formatError) Unwrap() error {
	return e.err
}

func (e formatError) Is(target error) bool {
	return target == ErrorUnsupportedFormat
}

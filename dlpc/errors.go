package dlpc

import (
	"errors"
	"fmt"
)

var (
	ErrorInvalidResponse = errors.New("Received invalid response")
	ErrorTimeout         = errors.New("The operation did not complete in time")
	ErrorTooLong         = errors.New("Message is too long")
	ErrorWrongParams     = errors.New("Invalid parameters")
)

// NackError is returned when the controller rejects a command.
type NackError struct {
	Command Command
}

func (e *NackError) Error() string {
	return fmt.Sprintf("command %s was not acknowledged", e.Command)
}

// ChecksumMismatchError is returned when the flash contents do not match
// the data that was downloaded.
type ChecksumMismatchError struct {
	Address  uint32
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch at 0x%08X: expected 0x%08X, got 0x%08X", e.Address, e.Expected, e.Actual)
}

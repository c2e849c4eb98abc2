package gohid

import (
	"errors"
	"time"
)

var (
	ErrorTooLong = errors.New("Transfer is too long")
	ErrorTimeout = errors.New("No report received in time")
)

// HIDDevice exchanges interrupt reports with a device. Written reports
// start with the report ID.
type HIDDevice interface {
	Write(b []byte) (int, error)
	ReadWithTimeout(b []byte, timeout time.Duration) (int, error)
	Close() error
}

func OpenHID(path string) (HIDDevice, error) {
	return openHIDInternal(path)
}

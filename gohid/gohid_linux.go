//go:build linux
// +build linux

package gohid

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

type HIDRaw struct {
	fd int
}

func openHIDInternal(path string) (HIDDevice, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}

	return &HIDRaw{
		fd: fd,
	}, nil
}

/* hidraw takes the report ID as first byte, like hidapi */
func (h *HIDRaw) Write(b []byte) (int, error) {
	if len(b) > 4096 {
		return 0, ErrorTooLong
	}

	n, err := unix.Write(h.fd, b)
	if err != nil {
		return 0, os.NewSyscallError("write", err)
	}
	return n, nil
}

func (h *HIDRaw) ReadWithTimeout(b []byte, timeout time.Duration) (int, error) {
	fds := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}

	for {
		n, err := unix.Poll(fds, int(timeout/time.Millisecond))
		if err == unix.EINTR {
			continue
		} else if err != nil {
			return 0, os.NewSyscallError("poll", err)
		} else if n == 0 {
			return 0, ErrorTimeout
		}
		break
	}

	n, err := unix.Read(h.fd, b)
	if err != nil {
		return 0, os.NewSyscallError("read", err)
	}
	return n, nil
}

func (h *HIDRaw) Close() error {
	return unix.Close(h.fd)
}

package dlpc

import (
	"context"
	"encoding/binary"
	"time"
)

const (
	blStatusBusy = 1 << 3

	flashInfoManufacturer = 0x0C
	flashInfoDevice       = 0x0D
	flashInfoChecksum     = 0x00
)

func (h *HAL) bootloaderBusy() (bool, error) {
	r, err := h.read(CmdBLStatus, nil, 1)
	if err != nil {
		return false, err
	}
	return r[0]&blStatusBusy != 0, nil
}

/* Polls the bootloader until it reports idle */
func (h *HAL) waitIdle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.BusyTimeout)
	defer cancel()

	for {
		busy, err := h.bootloaderBusy()
		if err != nil || !busy {
			return err
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return ErrorTimeout
			}
			return ctx.Err()
		case <-time.After(h.config.BusyInterval):
		}
	}
}

func (h *HAL) FlashManufacturerID() (uint16, error) {
	r, err := h.read(CmdBLFlashInfo, []byte{flashInfoManufacturer}, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r), nil
}

func (h *HAL) FlashDeviceID() (uint16, error) {
	r, err := h.read(CmdBLFlashInfo, []byte{flashInfoDevice}, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r), nil
}

func (h *HAL) SetSectorAddress(addr uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], addr)
	return h.write(CmdBLSectorAddr, b[:])
}

// EraseSector erases the sector selected by SetSectorAddress and waits
// for the bootloader to finish.
func (h *HAL) EraseSector(ctx context.Context) error {
	if err := h.write(CmdBLErase, nil); err != nil {
		return err
	}
	return h.waitIdle(ctx)
}

func (h *HAL) SetDownloadSize(n uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	return h.write(CmdBLDnldSize, b[:])
}

func (h *HAL) DownloadData(data []byte) error {
	return h.write(CmdBLDnldData, data)
}

// FlashChecksum asks the bootloader for the additive checksum of n bytes
// of flash starting at addr.
func (h *HAL) FlashChecksum(ctx context.Context, addr uint32, n uint32) (uint32, error) {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:], addr)
	binary.LittleEndian.PutUint32(b[4:], n)
	if err := h.write(CmdBLCalcCsum, b[:]); err != nil {
		return 0, err
	}
	if err := h.waitIdle(ctx); err != nil {
		return 0, err
	}

	r, err := h.read(CmdBLFlashInfo, []byte{flashInfoChecksum}, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r), nil
}

func Checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}

package dlpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BertoldVdb/dlp-tools/memregion"
)

const MemoryRegionFLASH memregion.NameType = "FLASH"

/* Flash is programmed relative to this address */
const flashBase = 0xF9000000

/* Three chip selects of 16MiB */
const flashSize = 3 * 0x01000000

type flashMemoryRegion struct {
	hal *HAL
	ctx context.Context
}

// MemoryRegionFlash returns a write-only view of the flash. Every write
// must cover whole sectors, which are erased before being written.
func (h *HAL) MemoryRegionFlash(ctx context.Context) memregion.MemoryRegion {
	return memregion.WrapCompleteIO(&flashMemoryRegion{
		hal: h,
		ctx: ctx,
	})
}

func (r *flashMemoryRegion) GetLength() int {
	return flashSize
}

func (r *flashMemoryRegion) GetParent() (memregion.MemoryRegion, int) {
	return nil, 0
}

func (r *flashMemoryRegion) GetName() memregion.NameType {
	return MemoryRegionFLASH
}

func (r *flashMemoryRegion) GetAlignment() int {
	return r.hal.config.SectorSize
}

func (r *flashMemoryRegion) Access(write bool, addr int, buf []byte) (int, error) {
	if !write {
		return 0, memregion.ErrorReadNotAllowed
	}
	if addr >= flashSize {
		return 0, nil
	}
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	h := r.hal
	sector := h.config.SectorSize
	if len(buf) > sector {
		buf = buf[:sector]
	}

	if err := h.SetSectorAddress(uint32(addr) + flashBase); err != nil {
		return 0, err
	}
	if err := h.EraseSector(r.ctx); err != nil {
		return 0, err
	}

	if err := h.SetSectorAddress(uint32(addr) + flashBase); err != nil {
		return 0, err
	}
	if err := h.SetDownloadSize(uint32(len(buf))); err != nil {
		return 0, err
	}

	written := 0
	for written < len(buf) {
		n := len(buf) - written
		if n > h.config.ChunkSize {
			n = h.config.ChunkSize
		}

		if err := h.DownloadData(buf[written : written+n]); err != nil {
			return written, err
		}
		written += n
	}

	return written, nil
}

// Progress reports how far Program got.
type Progress struct {
	/* "programming", "verifying" or "complete" */
	Phase string

	BytesWritten int
	TotalBytes   int
	Percentage   float64
	ElapsedTime  time.Duration
}

type ProgressFunc func(Progress)

// Program writes data to flash starting at offset, which must be sector
// aligned, and verifies it with the bootloader checksum. data is padded
// with 0xFF to a whole number of sectors.
func (h *HAL) Program(ctx context.Context, offset int, data []byte, progress ProgressFunc) error {
	sector := h.config.SectorSize
	if offset < 0 || offset%sector != 0 || len(data) == 0 || offset+len(data) > flashSize {
		return fmt.Errorf("%w: %d bytes at 0x%X", ErrorWrongParams, len(data), offset)
	}

	padded := make([]byte, (len(data)+sector-1)/sector*sector)
	n := copy(padded, data)
	for ; n < len(padded); n++ {
		padded[n] = 0xFF
	}

	start := time.Now()
	report := func(phase string, done int) {
		if progress == nil {
			return
		}
		progress(Progress{
			Phase:        phase,
			BytesWritten: done,
			TotalBytes:   len(padded),
			Percentage:   float64(done) * 100 / float64(len(padded)),
			ElapsedTime:  time.Since(start),
		})
	}

	region := h.MemoryRegionFlash(ctx)
	for done := 0; done < len(padded); done += sector {
		report("programming", done)
		h.log(2, "Programming sector 0x%X", offset+done)

		if _, err := region.Access(true, offset+done, padded[done:done+sector]); err != nil {
			return err
		}
	}

	report("verifying", len(padded))
	sum, err := h.FlashChecksum(ctx, uint32(offset)+flashBase, uint32(len(padded)))
	if err != nil {
		return err
	}
	if expected := Checksum(padded); sum != expected {
		return &ChecksumMismatchError{
			Address:  uint32(offset) + flashBase,
			Expected: expected,
			Actual:   sum,
		}
	}

	h.log(1, "Programmed %d bytes at 0x%X", len(padded), offset)
	report("complete", len(padded))
	return nil
}

// IsChecksumMismatch reports whether err came from a failed verification.
func IsChecksumMismatch(err error) bool {
	var e *ChecksumMismatchError
	return errors.As(err, &e)
}

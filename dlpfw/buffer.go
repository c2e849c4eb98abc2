package dlpfw

import (
	"encoding/binary"
	"fmt"
)

// flashBuffer is an append-only byte buffer with an explicit size limit.
// Slices returned by Bytes are invalidated by the next growing call.
type flashBuffer struct {
	data  []byte
	limit int
}

func newFlashBuffer(limit int) *flashBuffer {
	return &flashBuffer{
		limit: limit,
	}
}

func (b *flashBuffer) Len() int {
	return len(b.data)
}

func (b *flashBuffer) Bytes() []byte {
	return b.data
}

// Reserve makes room for a total length of n bytes.
func (b *flashBuffer) Reserve(n int) error {
	if n < 0 || n > b.limit {
		return fmt.Errorf("%w: %d bytes requested, limit is %d", ErrorAllocation, n, b.limit)
	}
	if n > cap(b.data) {
		grown := make([]byte, len(b.data), n)
		copy(grown, b.data)
		b.data = grown
	}
	return nil
}

func (b *flashBuffer) Write(p []byte) (int, error) {
	if err := b.Reserve(len(b.data) + len(p)); err != nil {
		return 0, err
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

// PadTo extends the buffer to n bytes using fill.
func (b *flashBuffer) PadTo(n int, fill byte) error {
	if n <= len(b.data) {
		return nil
	}
	if err := b.Reserve(n); err != nil {
		return err
	}
	for len(b.data) < n {
		b.data = append(b.data, fill)
	}
	return nil
}

func (b *flashBuffer) PutUint32(off int, v uint32) {
	binary.LittleEndian.PutUint32(b.data[off:], v)
}

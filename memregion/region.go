// Package memregion describes byte addressable memories, such as a
// firmware image in RAM or the flash of a connected controller, and views
// onto parts of them.
package memregion

import "errors"

var (
	ErrorReadNotAllowed  = errors.New("Memory can't be read")
	ErrorWriteNotAllowed = errors.New("Memory can't be written")
	ErrorAlignment       = errors.New("Alignment has been violated")
)

type NameType string

// MemoryRegion is a linear memory. Access may transfer fewer bytes than
// requested; a short count without error means the end was reached.
type MemoryRegion interface {
	GetName() NameType
	GetLength() int

	/* Enclosing region and the offset of this one inside it, nil for a root */
	GetParent() (MemoryRegion, int)

	/* Power of two, applies to addresses and to write lengths */
	GetAlignment() int

	Access(write bool, addr int, buf []byte) (int, error)
}

func ReadByte(m MemoryRegion, addr int) (byte, error) {
	var v [1]byte
	_, err := m.Access(false, addr, v[:])
	return v[0], err
}

func WriteByte(m MemoryRegion, addr int, value byte) error {
	_, err := m.Access(true, addr, []byte{value})
	return err
}

// RecursiveGetParentAddress follows GetParent up to the root region and
// returns it with offset expressed in root addresses.
func RecursiveGetParentAddress(region MemoryRegion, offset int) (MemoryRegion, int) {
	for {
		parent, at := region.GetParent()
		if parent == nil {
			return region, offset
		}
		region, offset = parent, offset+at
	}
}

package memregion

type regionBuffer struct {
	name     NameType
	data     []byte
	readOnly bool
}

// NewBuffer returns a region backed by data. Writes go straight into the
// slice, so callers observe them without copying.
func NewBuffer(name NameType, data []byte, readOnly bool) MemoryRegion {
	return regionBuffer{
		name:     name,
		data:     data,
		readOnly: readOnly,
	}
}

func (r regionBuffer) GetName() NameType {
	return r.name
}

func (r regionBuffer) GetLength() int {
	return len(r.data)
}

func (r regionBuffer) GetParent() (MemoryRegion, int) {
	return nil, 0
}

func (r regionBuffer) GetAlignment() int {
	return 1
}

func (r regionBuffer) Access(write bool, addr int, buf []byte) (int, error) {
	if write && r.readOnly {
		return 0, ErrorWriteNotAllowed
	}
	if addr < 0 || addr >= len(r.data) {
		return 0, nil
	}

	if write {
		return copy(r.data[addr:], buf), nil
	}
	return copy(buf, r.data[addr:]), nil
}

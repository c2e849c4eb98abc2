package memregion

import "fmt"

type window struct {
	name   NameType
	parent MemoryRegion
	start  int
	length int
}

// WrapPartial exposes length bytes of parent starting at offset. Accesses
// are clipped to the window.
func WrapPartial(name NameType, parent MemoryRegion, offset int, length int) MemoryRegion {
	return window{
		name:   name,
		parent: parent,
		start:  offset,
		length: length,
	}
}

func (w window) GetName() NameType {
	return w.name
}

func (w window) GetLength() int {
	return w.length
}

func (w window) GetParent() (MemoryRegion, int) {
	return w.parent, w.start
}

func (w window) GetAlignment() int {
	return w.parent.GetAlignment()
}

func (w window) Access(write bool, addr int, buf []byte) (int, error) {
	if addr < 0 || addr >= w.length {
		return 0, nil
	}
	if left := w.length - addr; len(buf) > left {
		buf = buf[:left]
	}

	return w.parent.Access(write, w.start+addr, buf)
}

type completeIO struct {
	MemoryRegion
}

// WrapCompleteIO checks alignment once and then repeats the access until
// buf is done, an error occurs or the region transfers nothing.
func WrapCompleteIO(parent MemoryRegion) MemoryRegion {
	return completeIO{parent}
}

func (c completeIO) Access(write bool, addr int, buf []byte) (int, error) {
	mask := c.GetAlignment() - 1
	if addr&mask != 0 {
		return 0, fmt.Errorf("%w: address %x", ErrorAlignment, addr)
	}
	if write && len(buf)&mask != 0 {
		return 0, fmt.Errorf("%w: data length %d", ErrorAlignment, len(buf))
	}

	done := 0
	for done < len(buf) {
		n, err := c.MemoryRegion.Access(write, addr+done, buf[done:])
		done += n
		if err != nil {
			return done, err
		}
		if n == 0 {
			break
		}
	}
	return done, nil
}

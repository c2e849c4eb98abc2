package dlpfw

import (
	"encoding/binary"
	"fmt"
)

const (
	FlashTableSignature  = 0x01234567
	FlashTableSize       = 464
	FlashTableSectorSize = 128 * 1024
)

/* Probed in this order, the first match wins */
var DefaultFlashTableOffsets = []int{0x00020000, 0x00008000, 0x00010000}

type FlashBlock struct {
	Address   uint32
	ByteCount uint32
}

type FlashTable struct {
	Signature     uint32
	BootAddress   uint32
	Version       uint32
	FreeAreaStart uint32

	AppCode     [4]FlashBlock
	ASICConfig  [4]FlashBlock
	Sequence    [4]FlashBlock
	ApplConfig  [4]FlashBlock
	OSD         [4]FlashBlock
	Splash      [4]FlashBlock
	OtherBinary [4]FlashBlock
	Splash2     [12]FlashBlock
	BatchFile   [16]FlashBlock
}

/* Block arrays in storage order */
func (t *FlashTable) blocks() [][]FlashBlock {
	return [][]FlashBlock{
		t.AppCode[:],
		t.ASICConfig[:],
		t.Sequence[:],
		t.ApplConfig[:],
		t.OSD[:],
		t.Splash[:],
		t.OtherBinary[:],
		t.Splash2[:],
		t.BatchFile[:],
	}
}

func UnmarshalFlashTable(buf []byte) (*FlashTable, error) {
	if len(buf) < FlashTableSize {
		return nil, fmt.Errorf("%w: flash table needs %d bytes, have %d", ErrorOutOfRange, FlashTableSize, len(buf))
	}

	t := &FlashTable{
		Signature:     binary.LittleEndian.Uint32(buf[0:]),
		BootAddress:   binary.LittleEndian.Uint32(buf[4:]),
		Version:       binary.LittleEndian.Uint32(buf[8:]),
		FreeAreaStart: binary.LittleEndian.Uint32(buf[12:]),
	}

	off := 16
	for _, list := range t.blocks() {
		for i := range list {
			list[i].Address = binary.LittleEndian.Uint32(buf[off:])
			list[i].ByteCount = binary.LittleEndian.Uint32(buf[off+4:])
			off += 8
		}
	}

	return t, nil
}

// MarshalTo writes the table into the first FlashTableSize bytes of buf.
func (t *FlashTable) MarshalTo(buf []byte) error {
	if len(buf) < FlashTableSize {
		return fmt.Errorf("%w: flash table needs %d bytes, have %d", ErrorOutOfRange, FlashTableSize, len(buf))
	}

	binary.LittleEndian.PutUint32(buf[0:], t.Signature)
	binary.LittleEndian.PutUint32(buf[4:], t.BootAddress)
	binary.LittleEndian.PutUint32(buf[8:], t.Version)
	binary.LittleEndian.PutUint32(buf[12:], t.FreeAreaStart)

	off := 16
	for _, list := range t.blocks() {
		for _, b := range list {
			binary.LittleEndian.PutUint32(buf[off:], b.Address)
			binary.LittleEndian.PutUint32(buf[off+4:], b.ByteCount)
			off += 8
		}
	}

	return nil
}

func (t *FlashTable) Marshal() []byte {
	buf := make([]byte, FlashTableSize)
	t.MarshalTo(buf)
	return buf
}

// Locate probes blob at each offset and returns the first table whose
// signature matches, together with the offset it was found at.
func Locate(blob []byte, offsets []int) (*FlashTable, int, error) {
	for _, off := range offsets {
		if off < 0 || off+FlashTableSize > len(blob) {
			continue
		}
		if binary.LittleEndian.Uint32(blob[off:]) != FlashTableSignature {
			continue
		}

		t, err := UnmarshalFlashTable(blob[off:])
		if err != nil {
			return nil, 0, err
		}
		return t, off, nil
	}

	return nil, 0, ErrorSignatureMismatch
}

package dlpfw

import (
	"encoding/binary"
	"fmt"

	"github.com/BertoldVdb/dlp-tools/dlpfw/codec"
)

const (
	catalogSignature1 = 0x12345678
	catalogSignature2 = 0x87654321
	catalogHeaderSize = 12
	catalogSlotSize   = 8

	/* Erased slot marker for both offset and size */
	unusedSlot = 0xFFFFFFFF

	MaxSplashImages = 128
)

const (
	SplashSignature  = 0x636C7053
	SplashHeaderSize = 32

	pixelFormat24Bit = 1
	byteOrderDefault = 1
)

type SplashHeader struct {
	Width           uint16
	Height          uint16
	ByteCount       uint32
	SubimageOffset  uint32
	SubimageEnd     uint32
	BackgroundColor uint32
	PixelFormat     uint8
	Compression     codec.Compression
	ByteOrder       uint8
	ChromaOrder     uint8
}

func newSplashHeader(b *codec.Bitmap, c codec.Compression, payload int) SplashHeader {
	return SplashHeader{
		Width:          uint16(b.Width),
		Height:         uint16(b.Height),
		ByteCount:      uint32(payload),
		SubimageOffset: unusedSlot,
		SubimageEnd:    unusedSlot,
		PixelFormat:    pixelFormat24Bit,
		Compression:    c,
		ByteOrder:      byteOrderDefault,
	}
}

func (h SplashHeader) Marshal() []byte {
	buf := make([]byte, SplashHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], SplashSignature)
	binary.LittleEndian.PutUint16(buf[4:], h.Width)
	binary.LittleEndian.PutUint16(buf[6:], h.Height)
	binary.LittleEndian.PutUint32(buf[8:], h.ByteCount)
	binary.LittleEndian.PutUint32(buf[12:], h.SubimageOffset)
	binary.LittleEndian.PutUint32(buf[16:], h.SubimageEnd)
	binary.LittleEndian.PutUint32(buf[20:], h.BackgroundColor)
	buf[24] = h.PixelFormat
	buf[25] = uint8(h.Compression)
	buf[26] = h.ByteOrder
	buf[27] = h.ChromaOrder
	return buf
}

func UnmarshalSplashHeader(buf []byte) (SplashHeader, error) {
	if len(buf) < SplashHeaderSize {
		return SplashHeader{}, fmt.Errorf("%w: splash header truncated", ErrorOutOfRange)
	}
	if sig := binary.LittleEndian.Uint32(buf); sig != SplashSignature {
		return SplashHeader{}, unsupportedFormat(fmt.Errorf("splash signature %08x", sig))
	}

	h := SplashHeader{
		Width:           binary.LittleEndian.Uint16(buf[4:]),
		Height:          binary.LittleEndian.Uint16(buf[6:]),
		ByteCount:       binary.LittleEndian.Uint32(buf[8:]),
		SubimageOffset:  binary.LittleEndian.Uint32(buf[12:]),
		SubimageEnd:     binary.LittleEndian.Uint32(buf[16:]),
		BackgroundColor: binary.LittleEndian.Uint32(buf[20:]),
		PixelFormat:     buf[24],
		Compression:     codec.Compression(buf[25]),
		ByteOrder:       buf[26],
		ChromaOrder:     buf[27],
	}

	if h.PixelFormat != pixelFormat24Bit {
		return h, unsupportedFormat(fmt.Errorf("pixel format %d", h.PixelFormat))
	}

	return h, nil
}

type catalogSlot struct {
	Offset uint32
	Size   uint32
}

func (s catalogSlot) Used() bool {
	return s.Offset != unusedSlot
}

/* Returns the slot count when the catalog signatures are present */
func catalogCount(buf []byte) (int, error) {
	if len(buf) < catalogHeaderSize ||
		binary.LittleEndian.Uint32(buf[0:]) != catalogSignature1 ||
		binary.LittleEndian.Uint32(buf[4:]) != catalogSignature2 {
		return 0, ErrorNoCatalog
	}
	return int(binary.LittleEndian.Uint32(buf[8:])), nil
}

func catalogSlotAt(buf []byte, index int) (catalogSlot, error) {
	count, err := catalogCount(buf)
	if err != nil {
		return catalogSlot{}, err
	}
	if index < 0 || index >= count {
		return catalogSlot{}, fmt.Errorf("%w: %d of %d", ErrorInvalidIndex, index, count)
	}

	off := catalogHeaderSize + index*catalogSlotSize
	if off+catalogSlotSize > len(buf) {
		return catalogSlot{}, fmt.Errorf("%w: slot %d truncated", ErrorOutOfRange, index)
	}

	return catalogSlot{
		Offset: binary.LittleEndian.Uint32(buf[off:]),
		Size:   binary.LittleEndian.Uint32(buf[off+4:]),
	}, nil
}

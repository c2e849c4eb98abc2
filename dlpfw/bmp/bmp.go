// Package bmp reads and writes uncompressed 24-bit Windows bitmaps in the
// pixel layout used by splash images.
package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/BertoldVdb/dlp-tools/dlpfw/codec"
)

var (
	ErrorNotBMP     = errors.New("Not a BMP file")
	ErrorNot24Bit   = errors.New("Only 24-bit BMP files are supported")
	ErrorCompressed = errors.New("Compressed BMP files are not supported")
	ErrorTruncated  = errors.New("BMP file is truncated")
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	headerSize     = fileHeaderSize + infoHeaderSize

	/* 72 DPI */
	pixelsPerMeter = 2835
)

// Decode parses a 24-bit BMP file. Rows are returned top-down with the
// second and third byte of every pixel swapped, which is the order the
// controller stores splash pixels in.
func Decode(data []byte) (*codec.Bitmap, error) {
	if len(data) < headerSize || data[0] != 'B' || data[1] != 'M' {
		return nil, ErrorNotBMP
	}

	offset := int(binary.LittleEndian.Uint32(data[10:]))
	if binary.LittleEndian.Uint32(data[14:]) < infoHeaderSize {
		return nil, fmt.Errorf("%w: unsupported info header", ErrorNotBMP)
	}

	width := int(int32(binary.LittleEndian.Uint32(data[18:])))
	height := int(int32(binary.LittleEndian.Uint32(data[22:])))
	if bpp := binary.LittleEndian.Uint16(data[28:]); bpp != 24 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrorNot24Bit, bpp)
	}
	if c := binary.LittleEndian.Uint32(data[30:]); c != 0 {
		return nil, fmt.Errorf("%w: method %d", ErrorCompressed, c)
	}

	/* Negative heights are stored top-down */
	topDown := height < 0
	if topDown {
		height = -height
	}

	b := codec.NewBitmap(width, height)
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrorNotBMP, err)
	}

	stride := b.Stride()
	if offset < headerSize || offset+stride*height > len(data) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrorTruncated, offset+stride*height, len(data))
	}

	for y := 0; y < height; y++ {
		src := height - 1 - y
		if topDown {
			src = y
		}
		copy(b.Row(y), data[offset+src*stride:])
	}

	b.SwapChannels()
	return b, nil
}

// Encode writes b as a bottom-up 24-bit BMP file without reordering the
// pixel bytes.
func Encode(b *codec.Bitmap) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	stride := b.Stride()
	imageSize := stride * b.Height
	out := make([]byte, headerSize+imageSize)

	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:], uint32(len(out)))
	binary.LittleEndian.PutUint32(out[10:], headerSize)

	binary.LittleEndian.PutUint32(out[14:], infoHeaderSize)
	binary.LittleEndian.PutUint32(out[18:], uint32(b.Width))
	binary.LittleEndian.PutUint32(out[22:], uint32(b.Height))
	binary.LittleEndian.PutUint16(out[26:], 1)
	binary.LittleEndian.PutUint16(out[28:], 24)
	binary.LittleEndian.PutUint32(out[34:], uint32(imageSize))
	binary.LittleEndian.PutUint32(out[38:], pixelsPerMeter)
	binary.LittleEndian.PutUint32(out[42:], pixelsPerMeter)

	for y := 0; y < b.Height; y++ {
		dst := headerSize + (b.Height-1-y)*stride
		copy(out[dst:], b.Row(y))
	}

	return out, nil
}

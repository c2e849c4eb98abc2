package codec

import (
	"bytes"
	"fmt"
)

// Incompressible is returned by LineProbe when the image does not repeat.
const Incompressible = 0xFFFFFFFF

const (
	MaxLines = 8

	/* Period used by the splash format */
	FourLinePeriod = 4
)

// LineProbe reports the size of a line-repeat encoding with the given
// period: every row must equal the row `lines` below it, up to the largest
// multiple of lines within the height. Any mismatch, a period outside
// 1..MaxLines or an image shorter than one period yields Incompressible.
func LineProbe(b *Bitmap, lines int) uint32 {
	if lines <= 0 || lines > MaxLines || b.Height < lines {
		return Incompressible
	}

	height := (b.Height / lines) * lines
	for r := 0; r+lines < height; r++ {
		if !bytes.Equal(b.Row(r), b.Row(r+lines)) {
			return Incompressible
		}
	}

	return uint32(lines * b.Stride())
}

// EncodeLines stores the first `lines` rows of b. The caller decides
// whether the image actually repeats.
func EncodeLines(b *Bitmap, lines int) ([]byte, error) {
	if lines <= 0 || lines > MaxLines || b.Height < lines {
		return nil, fmt.Errorf("%w: %d line strip from %d rows", ErrorInvalidBitmap, lines, b.Height)
	}

	n := lines * b.Stride()
	out := make([]byte, n)
	copy(out, b.Pix[:n])
	return out, nil
}

// DecodeLines repeats the stored strip over the full height.
func DecodeLines(data []byte, width int, height int) (*Bitmap, error) {
	stride := Stride(width)
	lines := len(data) / stride
	if lines == 0 || lines > MaxLines {
		return nil, fmt.Errorf("%w: %d byte line strip", ErrorInvalidStream, len(data))
	}

	b := NewBitmap(width, height)
	for y := 0; y < height; y++ {
		src := (y % lines) * stride
		copy(b.Pix[y*stride:(y+1)*stride], data[src:src+stride])
	}
	return b, nil
}

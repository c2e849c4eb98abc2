package codec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrorInvalidBitmap      = errors.New("Bitmap dimensions do not match pixel data")
	ErrorInvalidStream      = errors.New("Compressed stream is not valid")
	ErrorUnknownCompression = errors.New("Unknown compression type")
)

const BytesPerPixel = 3

/* Splash headers store the dimensions as 16-bit values */
const maxDimension = 0xFFFF

// Bitmap holds 24-bit packed pixels in row-major order. Every row is
// padded to a 4-byte boundary.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// Stride returns the padded length of a row of the given width.
func Stride(width int) int {
	return (width*BytesPerPixel + 3) &^ 3
}

func NewBitmap(width int, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]byte, Stride(width)*height),
	}
}

func (b *Bitmap) Stride() int {
	return Stride(b.Width)
}

// Row returns the pixel bytes of row y without padding.
func (b *Bitmap) Row(y int) []byte {
	start := y * b.Stride()
	return b.Pix[start : start+b.Width*BytesPerPixel]
}

func (b *Bitmap) Validate() error {
	if b.Width <= 0 || b.Height <= 0 || b.Width > maxDimension || b.Height > maxDimension {
		return fmt.Errorf("%w: %dx%d", ErrorInvalidBitmap, b.Width, b.Height)
	}
	if len(b.Pix) < b.Height*b.Stride() {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrorInvalidBitmap, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// SwapChannels exchanges the second and third byte of every pixel.
func (b *Bitmap) SwapChannels() {
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		for x := 0; x < len(row); x += BytesPerPixel {
			row[x+1], row[x+2] = row[x+2], row[x+1]
		}
	}
}

type Compression uint8

/* Values as stored in the splash header */
const (
	Uncompressed Compression = 0
	RLE          Compression = 1
	FourLine     Compression = 4
	Auto         Compression = 5
)

func (c Compression) String() string {
	switch c {
	case Uncompressed:
		return "none"
	case RLE:
		return "rle"
	case FourLine:
		return "4line"
	case Auto:
		return "auto"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "none", "uncompressed", "raw":
		return Uncompressed, nil
	case "rle":
		return RLE, nil
	case "4line", "fourline":
		return FourLine, nil
	case "auto", "":
		return Auto, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrorUnknownCompression, s)
}

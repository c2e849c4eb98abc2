package codec

import "fmt"

func EncodeRaw(b *Bitmap) []byte {
	n := b.Height * b.Stride()
	out := make([]byte, n)
	copy(out, b.Pix[:n])
	return out
}

func DecodeRaw(data []byte, width int, height int) (*Bitmap, error) {
	b := NewBitmap(width, height)
	if len(data) < len(b.Pix) {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrorInvalidStream, len(data), width, height)
	}
	copy(b.Pix, data)
	return b, nil
}

package codec

import "fmt"

/* Longest run a single record can describe */
const rleMaxRun = 255

func samePixel(row []byte, a int, b int) bool {
	a *= BytesPerPixel
	b *= BytesPerPixel
	return row[a] == row[b] && row[a+1] == row[b+1] && row[a+2] == row[b+2]
}

func padTo(out []byte, align int) []byte {
	for len(out)%align != 0 {
		out = append(out, 0)
	}
	return out
}

func rleEncodeRow(out []byte, row []byte, width int) []byte {
	for i := 0; i < width; {
		n := 1
		for i+n < width && n < rleMaxRun && samePixel(row, i, i+n) {
			n++
		}

		if n > 1 {
			/* Repeat: n, pixel */
			out = append(out, byte(n))
			out = append(out, row[i*BytesPerPixel:(i+1)*BytesPerPixel]...)
			i += n
			continue
		}

		/* Collect pixels until one starts a repeat */
		for i+n < width && n < rleMaxRun && (i+n+1 >= width || !samePixel(row, i+n, i+n+1)) {
			n++
		}

		if n == 1 {
			out = append(out, 1)
		} else {
			out = append(out, 0, byte(n))
		}
		out = append(out, row[i*BytesPerPixel:(i+n)*BytesPerPixel]...)
		i += n
	}

	return out
}

// EncodeRLE compresses b into the splash run-length format. Every row ends
// with a 0,0 marker padded to 4 bytes, the stream ends with 0,1 padded to
// 16 bytes.
func EncodeRLE(b *Bitmap) []byte {
	var out []byte

	for y := 0; y < b.Height; y++ {
		out = rleEncodeRow(out, b.Row(y), b.Width)

		/* End of line, scan lines are padded to 32 bits */
		out = append(out, 0, 0)
		out = padTo(out, 4)
	}

	/* End of image, padded to 128 bits */
	out = append(out, 0, 1)
	return padTo(out, 16)
}

// DecodeRLE expands a run-length stream into a width x height bitmap.
// Decoding stops at the end-of-image marker or at the end of data.
func DecodeRLE(data []byte, width int, height int) (*Bitmap, error) {
	total := width * height
	flat := make([]byte, total*BytesPerPixel)
	pixels := 0

	s := 0
	for s < len(data) {
		if s+1 >= len(data) {
			return nil, fmt.Errorf("%w: record truncated at %d", ErrorInvalidStream, s)
		}

		ctrl, color := data[s], data[s+1]
		if ctrl == 0 {
			switch {
			case color == 1:
				return unflatten(flat, width, height), nil

			case color == 0:
				s += 2
				if s%4 != 0 {
					s += 4 - s%4
				}

			default:
				n := int(color)
				s += 2
				if s+n*BytesPerPixel > len(data) {
					return nil, fmt.Errorf("%w: raw run truncated at %d", ErrorInvalidStream, s)
				}
				if pixels+n > total {
					return nil, fmt.Errorf("%w: too many pixels", ErrorInvalidStream)
				}
				copy(flat[pixels*BytesPerPixel:], data[s:s+n*BytesPerPixel])
				pixels += n
				s += n * BytesPerPixel
			}
			continue
		}

		n := int(ctrl)
		s++
		if s+BytesPerPixel > len(data) {
			return nil, fmt.Errorf("%w: repeat truncated at %d", ErrorInvalidStream, s)
		}
		if pixels+n > total {
			return nil, fmt.Errorf("%w: too many pixels", ErrorInvalidStream)
		}
		for i := 0; i < n; i++ {
			copy(flat[(pixels+i)*BytesPerPixel:], data[s:s+BytesPerPixel])
		}
		pixels += n
		s += BytesPerPixel
	}

	return unflatten(flat, width, height), nil
}

func unflatten(flat []byte, width int, height int) *Bitmap {
	b := NewBitmap(width, height)
	rowLen := width * BytesPerPixel
	for y := 0; y < height; y++ {
		copy(b.Row(y), flat[y*rowLen:(y+1)*rowLen])
	}
	return b
}

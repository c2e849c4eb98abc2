package codec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func makeBitmap(width int, height int, pixel func(x, y int) [3]byte) *Bitmap {
	b := NewBitmap(width, height)
	for y := 0; y < height; y++ {
		row := b.Row(y)
		for x := 0; x < width; x++ {
			p := pixel(x, y)
			copy(row[x*BytesPerPixel:], p[:])
		}
	}
	return b
}

var red = [3]byte{0xFF, 0x00, 0x00}

func TestEncodeRLESolid(t *testing.T) {
	b := makeBitmap(16, 16, func(x, y int) [3]byte { return red })

	var want []byte
	for y := 0; y < 16; y++ {
		want = append(want, 16, 0xFF, 0x00, 0x00, 0, 0, 0, 0)
	}
	want = append(want, 0, 1)
	want = append(want, make([]byte, 14)...)

	got := EncodeRLE(b)
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeRLE() = %x, want %x", got, want)
	}
	if len(got) >= 16*16*3 {
		t.Errorf("encoded size %d not smaller than uncompressed", len(got))
	}

	dec, err := DecodeRLE(got, 16, 16)
	if err != nil {
		t.Fatalf("DecodeRLE() error = %v", err)
	}
	if !bytes.Equal(dec.Pix, b.Pix) {
		t.Errorf("DecodeRLE() did not reproduce the image")
	}
}

func TestEncodeRLERecords(t *testing.T) {
	a := [3]byte{1, 2, 3}
	bb := [3]byte{4, 5, 6}
	c := [3]byte{7, 8, 9}

	tests := []struct {
		name string
		row  [][3]byte
		want []byte
	}{
		{
			name: "single pixel",
			row:  [][3]byte{a},
			want: []byte{
				1, 1, 2, 3, 0, 0, 0, 0,
				0, 1, 0, 0, 0, 0, 0, 0,
			},
		},
		{
			name: "raw run then repeat",
			row:  [][3]byte{a, bb, c, c},
			want: []byte{
				0, 2, 1, 2, 3, 4, 5, 6,
				2, 7, 8, 9,
				0, 0, 0, 0,
				0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			},
		},
		{
			name: "lone pixel before repeat",
			row:  [][3]byte{a, bb, bb},
			want: []byte{
				1, 1, 2, 3,
				2, 4, 5, 6,
				0, 0, 0, 0,
				0, 1, 0, 0,
			},
		},
		{
			name: "trailing raw run",
			row:  [][3]byte{a, a, bb, c},
			want: []byte{
				2, 1, 2, 3,
				0, 2, 4, 5, 6, 7, 8, 9,
				0, 0, 0, 0,
				0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := makeBitmap(len(tt.row), 1, func(x, y int) [3]byte { return tt.row[x] })
			got := EncodeRLE(b)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("EncodeRLE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRLERoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	palette := [][3]byte{red, {0, 0xFF, 0}, {0, 0, 0xFF}}

	tests := []struct {
		name   string
		width  int
		height int
		pixel  func(x, y int) [3]byte
	}{
		{"solid 1x1", 1, 1, func(x, y int) [3]byte { return red }},
		{"solid odd width", 5, 7, func(x, y int) [3]byte { return red }},
		{"long repeat", 600, 2, func(x, y int) [3]byte { return red }},
		{"long distinct", 600, 2, func(x, y int) [3]byte { return [3]byte{byte(x), byte(x >> 8), byte(y)} }},
		{"exact run limit", 255, 1, func(x, y int) [3]byte { return red }},
		{"run limit plus one", 256, 1, func(x, y int) [3]byte { return [3]byte{byte(x), byte(x >> 8), 0} }},
		{"vertical stripes", 17, 9, func(x, y int) [3]byte { return palette[(x/3)%3] }},
		{"random palette", 33, 21, func(x, y int) [3]byte { return palette[rng.Intn(len(palette))] }},
		{"random bytes", 31, 13, func(x, y int) [3]byte {
			return [3]byte{byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256))}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := makeBitmap(tt.width, tt.height, tt.pixel)
			enc := EncodeRLE(b)
			if len(enc)%16 != 0 {
				t.Errorf("encoded length %d not padded to 16", len(enc))
			}

			dec, err := DecodeRLE(enc, tt.width, tt.height)
			if err != nil {
				t.Fatalf("DecodeRLE() error = %v", err)
			}
			if !bytes.Equal(dec.Pix, b.Pix) {
				t.Errorf("round trip mismatch for %dx%d", tt.width, tt.height)
			}
		})
	}
}

func TestDecodeRLEErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		width  int
		height int
	}{
		{"dangling byte", []byte{0}, 1, 1},
		{"raw run truncated", []byte{0, 5, 1, 2, 3}, 5, 1},
		{"repeat truncated", []byte{3, 1}, 3, 1},
		{"too many repeated pixels", []byte{2, 1, 2, 3, 0, 1}, 1, 1},
		{"too many raw pixels", []byte{0, 2, 1, 2, 3, 4, 5, 6}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRLE(tt.data, tt.width, tt.height)
			if !errors.Is(err, ErrorInvalidStream) {
				t.Errorf("DecodeRLE() error = %v, want %v", err, ErrorInvalidStream)
			}
		})
	}
}

func TestDecodeRLEStopsAtEndMarker(t *testing.T) {
	data := []byte{1, 9, 8, 7, 0, 0, 0, 0, 0, 1, 0xAA, 0xBB, 0xCC}
	b, err := DecodeRLE(data, 1, 1)
	if err != nil {
		t.Fatalf("DecodeRLE() error = %v", err)
	}
	if !bytes.Equal(b.Row(0), []byte{9, 8, 7}) {
		t.Errorf("DecodeRLE() = %v", b.Row(0))
	}
}

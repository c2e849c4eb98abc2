package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestSelectAuto(t *testing.T) {
	tests := []struct {
		name   string
		bitmap *Bitmap
		want   Compression
	}{
		{
			/* RLE would be smaller but the line probe wins */
			name:   "solid",
			bitmap: makeBitmap(16, 16, func(x, y int) [3]byte { return red }),
			want:   FourLine,
		},
		{
			name: "solid rows",
			bitmap: makeBitmap(16, 16, func(x, y int) [3]byte {
				return [3]byte{byte(y), 0, 0}
			}),
			want: RLE,
		},
		{
			name: "noise",
			bitmap: makeBitmap(16, 16, func(x, y int) [3]byte {
				i := x + y*16
				return [3]byte{byte(i), byte(i >> 8), 0x55}
			}),
			want: Uncompressed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, data, err := Select(tt.bitmap, Auto)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if c != tt.want {
				t.Errorf("Select() chose %v, want %v", c, tt.want)
			}

			raw := tt.bitmap.Height * tt.bitmap.Stride()
			if len(data) > raw {
				t.Errorf("Select() produced %d bytes, more than uncompressed %d", len(data), raw)
			}
			if got := EncodedSize(tt.bitmap, Auto); got != uint32(len(data)) {
				t.Errorf("EncodedSize() = %d, want %d", got, len(data))
			}

			dec, err := Decode(c, data, tt.bitmap.Width, tt.bitmap.Height)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !bytes.Equal(dec.Pix, tt.bitmap.Pix) {
				t.Errorf("Decode() did not reproduce the image")
			}
		})
	}
}

func TestSelectForced(t *testing.T) {
	b := makeBitmap(16, 16, func(x, y int) [3]byte { return red })

	tests := []struct {
		requested Compression
		size      int
	}{
		{Uncompressed, 768},
		{RLE, 144},
		{FourLine, 192},
	}

	for _, tt := range tests {
		t.Run(tt.requested.String(), func(t *testing.T) {
			c, data, err := Select(b, tt.requested)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if c != tt.requested {
				t.Errorf("Select() chose %v, want %v", c, tt.requested)
			}
			if len(data) != tt.size {
				t.Errorf("Select() produced %d bytes, want %d", len(data), tt.size)
			}
		})
	}
}

func TestSelectErrors(t *testing.T) {
	good := makeBitmap(4, 4, func(x, y int) [3]byte { return red })

	if _, _, err := Select(good, Compression(2)); !errors.Is(err, ErrorUnknownCompression) {
		t.Errorf("Select() error = %v, want %v", err, ErrorUnknownCompression)
	}
	if _, _, err := Select(&Bitmap{Width: 0, Height: 4}, Auto); !errors.Is(err, ErrorInvalidBitmap) {
		t.Errorf("Select() error = %v, want %v", err, ErrorInvalidBitmap)
	}
	if _, _, err := Select(&Bitmap{Width: 4, Height: 4, Pix: make([]byte, 8)}, Auto); !errors.Is(err, ErrorInvalidBitmap) {
		t.Errorf("Select() error = %v, want %v", err, ErrorInvalidBitmap)
	}
	if _, err := Decode(Auto, nil, 1, 1); !errors.Is(err, ErrorUnknownCompression) {
		t.Errorf("Decode() error = %v, want %v", err, ErrorUnknownCompression)
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want Compression
		err  bool
	}{
		{"", Auto, false},
		{"AUTO", Auto, false},
		{"raw", Uncompressed, false},
		{"none", Uncompressed, false},
		{"rle", RLE, false},
		{"4line", FourLine, false},
		{"lzma", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseCompression(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCompression(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSwapChannels(t *testing.T) {
	b := makeBitmap(2, 1, func(x, y int) [3]byte { return [3]byte{1, 2, 3} })
	b.SwapChannels()
	if !bytes.Equal(b.Row(0), []byte{1, 3, 2, 1, 3, 2}) {
		t.Errorf("SwapChannels() = %v", b.Row(0))
	}
}

func TestEncodedSizeMalformed(t *testing.T) {
	b := &Bitmap{Width: 4, Height: 8, Pix: make([]byte, 10)}
	for _, c := range []Compression{Uncompressed, RLE, FourLine, Auto} {
		if got := EncodedSize(b, c); got != Incompressible {
			t.Errorf("EncodedSize(%v) = %d, want Incompressible", c, got)
		}
	}
}

/* Rows past the last whole period are not compared, so auto picks 4-line
 * and the decoded tail repeats the first rows. */
func TestSelectAutoIgnoresTrailingRows(t *testing.T) {
	b := makeBitmap(4, 5, func(x, y int) [3]byte { return [3]byte{byte(y + 1), byte(x), 0x80} })

	c, data, err := Select(b, Auto)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if c != FourLine || len(data) != 4*b.Stride() {
		t.Fatalf("Select() = %v with %d bytes, want 4line with %d", c, len(data), 4*b.Stride())
	}

	dec, err := Decode(c, data, b.Width, b.Height)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(dec.Row(4), b.Row(0)) {
		t.Errorf("row 4 = %v, want row 0 %v", dec.Row(4), b.Row(0))
	}
	if bytes.Equal(dec.Row(4), b.Row(4)) {
		t.Errorf("row 4 unexpectedly preserved")
	}
}

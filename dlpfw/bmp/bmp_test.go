package bmp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/BertoldVdb/dlp-tools/dlpfw/codec"
)

/* 3x2 image, bottom-up, rows padded from 9 to 12 bytes */
func sampleFile() []byte {
	pix := []byte{
		/* bottom row */
		1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0, 0,
		/* top row */
		11, 12, 13, 14, 15, 16, 17, 18, 19, 0, 0, 0,
	}

	hdr := make([]byte, headerSize)
	hdr[0], hdr[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(hdr[2:], uint32(headerSize+len(pix)))
	binary.LittleEndian.PutUint32(hdr[10:], headerSize)
	binary.LittleEndian.PutUint32(hdr[14:], infoHeaderSize)
	binary.LittleEndian.PutUint32(hdr[18:], 3)
	binary.LittleEndian.PutUint32(hdr[22:], 2)
	binary.LittleEndian.PutUint16(hdr[26:], 1)
	binary.LittleEndian.PutUint16(hdr[28:], 24)
	return append(hdr, pix...)
}

func TestDecode(t *testing.T) {
	b, err := Decode(sampleFile())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if b.Width != 3 || b.Height != 2 {
		t.Fatalf("Decode() = %dx%d", b.Width, b.Height)
	}

	wantTop := []byte{11, 13, 12, 14, 16, 15, 17, 19, 18}
	wantBottom := []byte{1, 3, 2, 4, 6, 5, 7, 9, 8}
	if !bytes.Equal(b.Row(0), wantTop) || !bytes.Equal(b.Row(1), wantBottom) {
		t.Errorf("Decode() rows = %v, %v", b.Row(0), b.Row(1))
	}
}

func TestDecodeTopDown(t *testing.T) {
	f := sampleFile()
	binary.LittleEndian.PutUint32(f[22:], uint32(0xFFFFFFFE))

	b, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if b.Height != 2 || b.Row(0)[0] != 1 || b.Row(1)[0] != 11 {
		t.Errorf("Decode() rows = %v, %v", b.Row(0), b.Row(1))
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f []byte) []byte
		want   error
	}{
		{"short", func(f []byte) []byte { return f[:20] }, ErrorNotBMP},
		{"magic", func(f []byte) []byte { f[0] = 'X'; return f }, ErrorNotBMP},
		{"32 bit", func(f []byte) []byte { f[28] = 32; return f }, ErrorNot24Bit},
		{"rle", func(f []byte) []byte { f[30] = 1; return f }, ErrorCompressed},
		{"zero width", func(f []byte) []byte { f[18] = 0; return f }, ErrorNotBMP},
		{"truncated", func(f []byte) []byte { return f[:len(f)-1] }, ErrorTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.modify(sampleFile())); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	b := codec.NewBitmap(5, 3)
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		for i := range row {
			row[i] = byte(y*16 + i)
		}
	}

	f, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(f) != headerSize+16*3 || binary.LittleEndian.Uint32(f[2:]) != uint32(len(f)) {
		t.Errorf("Encode() produced %d bytes", len(f))
	}

	back, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	back.SwapChannels()
	if !bytes.Equal(back.Pix, b.Pix) {
		t.Errorf("Decode(Encode()) changed the pixels")
	}
}

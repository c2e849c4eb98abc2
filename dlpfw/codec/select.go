package codec

// Select encodes b with the requested compression. Auto tries the 4-line
// probe first and RLE second, comparing each only against the uncompressed
// size, so a repeating image is stored as 4-line even when RLE is smaller.
func Select(b *Bitmap, requested Compression) (Compression, []byte, error) {
	if err := b.Validate(); err != nil {
		return requested, nil, err
	}

	switch requested {
	case Uncompressed:
		return Uncompressed, EncodeRaw(b), nil

	case RLE:
		return RLE, EncodeRLE(b), nil

	case FourLine:
		data, err := EncodeLines(b, FourLinePeriod)
		return FourLine, data, err

	case Auto:
		rawSize := uint32(b.Height * b.Stride())
		lineSize := LineProbe(b, FourLinePeriod)
		rle := EncodeRLE(b)

		if lineSize < rawSize {
			data, err := EncodeLines(b, FourLinePeriod)
			return FourLine, data, err
		} else if uint32(len(rle)) < rawSize {
			return RLE, rle, nil
		}
		return Uncompressed, EncodeRaw(b), nil
	}

	return requested, nil, ErrorUnknownCompression
}

// EncodedSize returns the number of payload bytes b needs with compression
// c, or Incompressible when c cannot represent it or b is malformed.
func EncodedSize(b *Bitmap, c Compression) uint32 {
	if b.Validate() != nil {
		return Incompressible
	}

	switch c {
	case Uncompressed:
		return uint32(b.Height * b.Stride())
	case RLE:
		return uint32(len(EncodeRLE(b)))
	case FourLine:
		return LineProbe(b, FourLinePeriod)
	case Auto:
		_, data, err := Select(b, Auto)
		if err != nil {
			return Incompressible
		}
		return uint32(len(data))
	}
	return Incompressible
}

// Decode reverses Select for a stored payload.
func Decode(c Compression, data []byte, width int, height int) (*Bitmap, error) {
	switch c {
	case Uncompressed:
		return DecodeRaw(data, width, height)
	case RLE:
		return DecodeRLE(data, width, height)
	case FourLine:
		return DecodeLines(data, width, height)
	}
	return nil, ErrorUnknownCompression
}

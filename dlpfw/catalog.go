package dlpfw

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/BertoldVdb/dlp-tools/dlpfw/codec"
)

// Catalog builds a splash catalog: a header, a fixed number of slots and
// the concatenated splash images. It is not safe for concurrent use.
type Catalog struct {
	config   Config
	buf      *flashBuffer
	capacity int

	/* Advances for every Add, including ones that did not fit */
	count int
}

type SplashInfo struct {
	Index   int
	Address Address
	Size    uint32
	Header  SplashHeader
}

// NewCatalog returns a catalog with capacity empty slots.
func NewCatalog(capacity int, config Config) (*Catalog, error) {
	config = config.withDefaults()
	if capacity <= 0 || capacity > MaxSplashImages {
		return nil, fmt.Errorf("%w: capacity %d, maximum is %d", ErrorWrongParams, capacity, MaxSplashImages)
	}

	c := &Catalog{
		config:   config,
		buf:      newFlashBuffer(config.MaxBufferSize),
		capacity: capacity,
	}

	hdr := make([]byte, catalogHeaderSize+capacity*catalogSlotSize)
	binary.LittleEndian.PutUint32(hdr[0:], catalogSignature1)
	binary.LittleEndian.PutUint32(hdr[4:], catalogSignature2)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(capacity))
	for i := catalogHeaderSize; i < len(hdr); i++ {
		hdr[i] = 0xFF
	}

	if _, err := c.buf.Write(hdr); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Capacity() int {
	return c.capacity
}

// Count returns how many images were submitted, placed or not.
func (c *Catalog) Count() int {
	return c.count
}

func (c *Catalog) Len() int {
	return c.buf.Len()
}

// Bytes returns the catalog as it is stored in flash.
func (c *Catalog) Bytes() []byte {
	return c.buf.Bytes()
}

// Add compresses b and appends it to the catalog, which starts at flash
// address base. It returns the compression that was used and the payload
// size. When the image does not fit the counter still advances, nothing
// is stored and ErrorCapacityExceeded is returned.
func (c *Catalog) Add(b *codec.Bitmap, requested codec.Compression, m *ChipSelectMap, base Address) (codec.Compression, uint32, error) {
	if c == nil || c.buf == nil || m == nil || base == 0 {
		return requested, 0, ErrorNotInitialized
	}

	used, payload, err := codec.Select(b, requested)
	if err != nil {
		return requested, 0, unsupportedFormat(err)
	}
	payloadSize := uint32(len(payload))

	if c.count >= c.capacity {
		c.count++
		c.config.log(1, "No free slot, can't write splash %d", c.count-1)
		return used, payloadSize, fmt.Errorf("%w: all %d slots used", ErrorCapacityExceeded, c.capacity)
	}

	size := uint32(SplashHeaderSize) + payloadSize
	cursor := base + Address(c.buf.Len())
	if uint64(base)+uint64(c.buf.Len()) > 0xFFFFFFFF {
		c.count++
		return used, payloadSize, fmt.Errorf("%w: cursor beyond address space", ErrorCapacityExceeded)
	}

	plan, err := m.PlanWrite(cursor, size)
	if err != nil {
		if errors.Is(err, ErrorCapacityExceeded) {
			c.count++
			c.config.log(1, "No space left in flash, can't write splash %d", c.count-1)
		}
		return used, payloadSize, err
	}

	start := c.buf.Len() + int(plan.Start-cursor)
	if err := c.buf.Reserve(start + int(size)); err != nil {
		return used, payloadSize, err
	}

	if plan.Relocated() {
		c.config.log(1, "Overflow %s, moving splash %d data to %s", plan.From, c.count, plan.To)
		c.config.log(1, "Bytes unused in %s = 0x%08X <%d> bytes", plan.From, plan.Unused, plan.Unused)

		/* Erased flash reads as 0xFF */
		if err := c.buf.PadTo(start, 0xFF); err != nil {
			return used, payloadSize, err
		}
	}

	hdr := newSplashHeader(b, used, len(payload))
	if _, err := c.buf.Write(hdr.Marshal()); err != nil {
		return used, payloadSize, err
	}
	if _, err := c.buf.Write(payload); err != nil {
		return used, payloadSize, err
	}

	slot := catalogHeaderSize + c.count*catalogSlotSize
	c.buf.PutUint32(slot, m.Translate(plan.Start))
	c.buf.PutUint32(slot+4, size)

	c.config.log(2, "Splash %d: %dx%d, %s, %d bytes at %s", c.count, b.Width, b.Height, used, size, plan.Start)
	c.count++

	return used, payloadSize, nil
}

// SplashInfo describes a stored image of a catalog placed at base.
func (c *Catalog) SplashInfo(index int, m *ChipSelectMap, base Address) (SplashInfo, error) {
	info, _, err := readSplash(c.buf.Bytes(), base, base, m, index)
	return info, err
}

// Splash decodes a stored image of a catalog placed at base.
func (c *Catalog) Splash(index int, m *ChipSelectMap, base Address) (*codec.Bitmap, error) {
	info, payload, err := readSplash(c.buf.Bytes(), base, base, m, index)
	if err != nil {
		return nil, err
	}
	return decodeSplash(info, payload, c.config.MaxBufferSize)
}

/* data is mapped at dataBase, the catalog starts at catalogAddr */
func readSplash(data []byte, dataBase Address, catalogAddr Address, m *ChipSelectMap, index int) (SplashInfo, []byte, error) {
	if catalogAddr < dataBase || uint64(catalogAddr-dataBase) >= uint64(len(data)) {
		return SplashInfo{}, nil, fmt.Errorf("%w: catalog at %s", ErrorOutOfRange, catalogAddr)
	}

	slot, err := catalogSlotAt(data[catalogAddr-dataBase:], index)
	if err != nil {
		return SplashInfo{}, nil, err
	}
	if !slot.Used() {
		return SplashInfo{}, nil, fmt.Errorf("%w: %d", ErrorNoSplashImage, index)
	}

	addr := m.Resolve(slot.Offset)
	if addr < dataBase || slot.Size < SplashHeaderSize {
		return SplashInfo{}, nil, fmt.Errorf("%w: splash %d at %s", ErrorOutOfRange, index, addr)
	}

	off := uint64(addr - dataBase)
	end := off + uint64(slot.Size)
	if end > uint64(len(data)) {
		return SplashInfo{}, nil, fmt.Errorf("%w: splash %d at %s", ErrorOutOfRange, index, addr)
	}

	hdr, err := UnmarshalSplashHeader(data[off:end])
	if err != nil {
		return SplashInfo{}, nil, err
	}

	info := SplashInfo{
		Index:   index,
		Address: addr,
		Size:    slot.Size,
		Header:  hdr,
	}
	return info, data[off+SplashHeaderSize : end], nil
}

/* Decoded images are returned with pixel bytes 1 and 2 swapped */
func decodeSplash(info SplashInfo, payload []byte, limit int) (*codec.Bitmap, error) {
	w, h := int(info.Header.Width), int(info.Header.Height)
	if w == 0 || h == 0 {
		return nil, unsupportedFormat(fmt.Errorf("splash %d is %dx%d", info.Index, w, h))
	}
	if codec.Stride(w)*h > limit {
		return nil, fmt.Errorf("%w: splash %d is %dx%d, limit is %d bytes", ErrorAllocation, info.Index, w, h, limit)
	}

	b, err := codec.Decode(info.Header.Compression, payload, w, h)
	if err != nil {
		return nil, unsupportedFormat(err)
	}

	b.SwapChannels()
	return b, nil
}

package dlpfw

import (
	"encoding/binary"
	"fmt"

	"github.com/BertoldVdb/dlp-tools/dlpfw/codec"
)

// Image is a firmware image loaded into memory together with the splash
// catalog being built for it. It is not safe for concurrent use.
type Image struct {
	config Config

	data        []byte
	table       *FlashTable
	tableOffset int

	splashStart Address
	applConfig  Address

	csm     *ChipSelectMap
	catalog *Catalog
}

// Load copies blob and locates its flash table.
func Load(blob []byte, config Config) (*Image, error) {
	config = config.withDefaults()
	if len(blob) > config.MaxBufferSize {
		return nil, fmt.Errorf("%w: firmware is %d bytes, limit is %d", ErrorAllocation, len(blob), config.MaxBufferSize)
	}

	table, off, err := Locate(blob, config.FlashTableOffsets)
	if err != nil {
		return nil, err
	}

	i := &Image{
		config:      config,
		data:        append([]byte(nil), blob...),
		table:       table,
		tableOffset: off,
		splashStart: Address(table.Splash[0].Address),
		applConfig:  Address(table.ApplConfig[0].Address),
		csm:         NewChipSelectMap(config.ChipSelectSizes),
	}

	config.log(1, "Flash table found at 0x%X, splash data at %s", off, i.splashStart)
	return i, nil
}

func (i *Image) FlashTable() FlashTable {
	return *i.table
}

func (i *Image) FlashTableOffset() int {
	return i.tableOffset
}

func (i *Image) ChipSelectMap() *ChipSelectMap {
	return i.csm
}

func (i *Image) SplashStartAddress() Address {
	return i.splashStart
}

func (i *Image) ApplConfigAddress() Address {
	return i.applConfig
}

// Bytes returns the current firmware bytes. The slice is replaced by Merge.
func (i *Image) Bytes() []byte {
	return i.data
}

/* Maps a flash address onto an index into the firmware bytes */
func (i *Image) offset(a Address, n int) (int, error) {
	if a < FlashBase || uint64(a-FlashBase)+uint64(n) > uint64(len(i.data)) {
		return 0, fmt.Errorf("%w: %d bytes at %s", ErrorOutOfRange, n, a)
	}
	return int(a - FlashBase), nil
}

// Version returns the firmware version stored at the start of the
// application configuration data.
func (i *Image) Version() (uint32, error) {
	off, err := i.offset(i.applConfig, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(i.data[off:]), nil
}

// SplashCount returns the slot count of the catalog stored in the image.
func (i *Image) SplashCount() (int, error) {
	off, err := i.offset(i.splashStart, catalogHeaderSize)
	if err != nil {
		return 0, ErrorNoCatalog
	}
	return catalogCount(i.data[off:])
}

func (i *Image) SplashInfo(index int) (SplashInfo, error) {
	info, _, err := readSplash(i.data, FlashBase, i.splashStart, i.csm, index)
	return info, err
}

// Splash decodes a splash image stored in the firmware.
func (i *Image) Splash(index int) (*codec.Bitmap, error) {
	info, payload, err := readSplash(i.data, FlashBase, i.splashStart, i.csm, index)
	if err != nil {
		return nil, err
	}
	return decodeSplash(info, payload, i.config.MaxBufferSize)
}

// InitSplash starts a new catalog with capacity slots, discarding any
// catalog built before.
func (i *Image) InitSplash(capacity int) error {
	c, err := NewCatalog(capacity, i.config)
	if err != nil {
		return err
	}
	i.catalog = c
	return nil
}

func (i *Image) Catalog() *Catalog {
	return i.catalog
}

// AddSplash appends b to the catalog started by InitSplash.
func (i *Image) AddSplash(b *codec.Bitmap, requested codec.Compression) (codec.Compression, uint32, error) {
	if i.catalog == nil {
		return requested, 0, ErrorNotInitialized
	}
	return i.catalog.Add(b, requested, i.csm, i.splashStart)
}

// SplashBuffer returns the catalog for a catalog-only update.
func (i *Image) SplashBuffer() ([]byte, error) {
	if i.catalog == nil {
		return nil, ErrorNotInitialized
	}
	return i.catalog.Bytes(), nil
}

// Merge replaces everything from the splash start address onwards with the
// catalog and returns the new firmware. A firmware shorter than the splash
// start is padded with 0xFF.
func (i *Image) Merge() ([]byte, error) {
	if i.catalog == nil || i.splashStart == 0 {
		return nil, ErrorNotInitialized
	}
	if i.splashStart < FlashBase {
		return nil, fmt.Errorf("%w: splash data at %s", ErrorOutOfRange, i.splashStart)
	}

	prefix := int(i.splashStart - FlashBase)
	total := prefix + i.catalog.Len()
	if total > i.config.MaxBufferSize {
		return nil, fmt.Errorf("%w: merged firmware is %d bytes, limit is %d", ErrorAllocation, total, i.config.MaxBufferSize)
	}

	out := make([]byte, total)
	n := copy(out[:prefix], i.data)
	for ; n < prefix; n++ {
		out[n] = 0xFF
	}
	copy(out[prefix:], i.catalog.Bytes())

	i.data = out
	return out, nil
}

// UpdateFlashTableSplashAddress points the flash table at a catalog stored
// offset bytes into flash. The image is updated and the complete flash
// table sector is returned for programming.
func (i *Image) UpdateFlashTableSplashAddress(offset uint32) ([]byte, error) {
	if uint64(offset)+uint64(FlashBase) > 0xFFFFFFFF {
		return nil, fmt.Errorf("%w: offset 0x%X", ErrorOutOfRange, offset)
	}
	if i.catalog != nil && i.catalog.Count() > 0 {
		return nil, fmt.Errorf("%w: catalog already placed at %s", ErrorWrongParams, i.splashStart)
	}

	if i.tableOffset+FlashTableSize > len(i.data) {
		return nil, fmt.Errorf("%w: flash table at 0x%X, image is %d bytes", ErrorOutOfRange, i.tableOffset, len(i.data))
	}

	table := *i.table
	table.Splash[0].Address = offset + uint32(FlashBase)
	if err := table.MarshalTo(i.data[i.tableOffset:]); err != nil {
		return nil, err
	}
	*i.table = table
	i.splashStart = Address(table.Splash[0].Address)

	sector := make([]byte, FlashTableSectorSize)
	n := copy(sector, i.data[i.tableOffset:])
	for ; n < len(sector); n++ {
		sector[n] = 0xFF
	}

	i.config.log(1, "Splash data moved to %s", i.splashStart)
	return sector, nil
}

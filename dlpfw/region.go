package dlpfw

import (
	"strings"

	"github.com/BertoldVdb/dlp-tools/memregion"
)

const (
	MemoryRegionFlash      memregion.NameType = "FLASH"
	MemoryRegionFlashTable memregion.NameType = "FLASHTABLE"
	MemoryRegionSplash     memregion.NameType = "SPLASH"
	MemoryRegionApplConfig memregion.NameType = "APPLCONFIG"
)

func (i *Image) MemoryRegionList() []memregion.NameType {
	return []memregion.NameType{
		MemoryRegionFlash,
		MemoryRegionFlashTable,
		MemoryRegionSplash,
		MemoryRegionApplConfig,
	}
}

/* A block with no byte count extends to the end of the image */
func (i *Image) memoryRegionBlock(name memregion.NameType, b FlashBlock) memregion.MemoryRegion {
	off, err := i.offset(Address(b.Address), 0)
	if err != nil {
		return nil
	}

	length := len(i.data) - off
	if b.ByteCount != 0 && b.ByteCount != unusedSlot && int(b.ByteCount) < length {
		length = int(b.ByteCount)
	}

	return memregion.WrapPartial(name, i.MemoryRegionGet(MemoryRegionFlash), off, length)
}

// MemoryRegionGet returns a read-only view of part of the firmware, or nil
// when the region is not present in the image.
func (i *Image) MemoryRegionGet(name memregion.NameType) memregion.MemoryRegion {
	t := memregion.NameType(strings.ToUpper(string(name)))

	switch t {
	case MemoryRegionFlash:
		return memregion.NewBuffer(MemoryRegionFlash, i.data, true)

	case MemoryRegionFlashTable:
		return memregion.WrapPartial(MemoryRegionFlashTable, i.MemoryRegionGet(MemoryRegionFlash), i.tableOffset, FlashTableSize)

	case MemoryRegionSplash:
		return i.memoryRegionBlock(MemoryRegionSplash, FlashBlock{
			Address:   uint32(i.splashStart),
			ByteCount: i.table.Splash[0].ByteCount,
		})

	case MemoryRegionApplConfig:
		return i.memoryRegionBlock(MemoryRegionApplConfig, i.table.ApplConfig[0])
	}

	return nil
}

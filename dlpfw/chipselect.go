package dlpfw

import "fmt"

// Address is an absolute address in the controller's flash address space.
type Address uint32

func (a Address) String() string {
	return fmt.Sprintf("0x%08X", uint32(a))
}

/* Firmware byte 0 is mapped at this address */
const FlashBase Address = 0xF9000000

/* CS0 is decoded at 0xFB000000 but the controller sees it at 0xF8000000 */
const chipSelect0Remap = 0x03000000

type ChipSelect int

const (
	ChipSelectNone ChipSelect = -1
	CS0            ChipSelect = 0
	CS1            ChipSelect = 1
	CS2            ChipSelect = 2
)

func (c ChipSelect) String() string {
	if c < CS0 || c > CS2 {
		return "none"
	}
	return fmt.Sprintf("FLASH_CS%d", int(c))
}

var chipSelectBase = [3]Address{0xFB000000, 0xF9000000, 0xFA000000}

var DefaultChipSelectSizes = [3]uint32{0x01000000, 0x01000000, 0x01000000}

/* Order used to find the end of flash, matching the controller memory map */
var chipSelectPriority = [3]ChipSelect{CS0, CS2, CS1}

type Aperture struct {
	Base Address
	Size uint32
}

func (a Aperture) End() uint64 {
	return uint64(a.Base) + uint64(a.Size)
}

func (a Aperture) Populated() bool {
	return a.Size != 0
}

func (a Aperture) Contains(addr Address) bool {
	return uint64(addr) >= uint64(a.Base) && uint64(addr) < a.End()
}

type ChipSelectMap struct {
	apertures [3]Aperture
}

func NewChipSelectMap(sizes [3]uint32) *ChipSelectMap {
	m := &ChipSelectMap{}
	for i := range m.apertures {
		m.apertures[i] = Aperture{
			Base: chipSelectBase[i],
			Size: sizes[i],
		}
	}
	return m
}

func (m *ChipSelectMap) Aperture(cs ChipSelect) Aperture {
	if cs < CS0 || cs > CS2 {
		return Aperture{}
	}
	return m.apertures[cs]
}

// End returns the end of the first populated aperture in priority order,
// or 0 when no chip select is populated.
func (m *ChipSelectMap) End() uint64 {
	for _, cs := range chipSelectPriority {
		if a := m.apertures[cs]; a.Populated() {
			return a.End()
		}
	}
	return 0
}

func (m *ChipSelectMap) Lookup(addr Address) (ChipSelect, bool) {
	for _, cs := range chipSelectPriority {
		if m.apertures[cs].Contains(addr) {
			return cs, true
		}
	}
	return ChipSelectNone, false
}

// Translate converts a placement address into the value stored in a
// catalog slot.
func (m *ChipSelectMap) Translate(addr Address) uint32 {
	if addr >= chipSelectBase[CS0] {
		return uint32(addr) - chipSelect0Remap
	}
	return uint32(addr)
}

// Resolve reverses Translate.
func (m *ChipSelectMap) Resolve(stored uint32) Address {
	if Address(stored) < FlashBase {
		return Address(stored + chipSelect0Remap)
	}
	return Address(stored)
}

type WritePlan struct {
	/* Where the data will be placed */
	Start Address

	/* Set when the write crossed the end of From and moved to To */
	From ChipSelect
	To   ChipSelect

	/* Bytes left unused at the end of From */
	Unused uint32
}

func (p WritePlan) Relocated() bool {
	return p.From != ChipSelectNone
}

// PlanWrite decides where length bytes that would start at cursor are
// placed. A write crossing the end of CS1 (only when CS1 is not fully
// populated) or CS2 is moved to the start of the next aperture. When the
// data does not fit ErrorCapacityExceeded is returned.
func (m *ChipSelectMap) PlanWrite(cursor Address, length uint32) (WritePlan, error) {
	plan := WritePlan{
		Start: cursor,
		From:  ChipSelectNone,
		To:    ChipSelectNone,
	}

	flashEnd := m.End()
	end := uint64(cursor) + uint64(length)
	if end >= flashEnd {
		return plan, fmt.Errorf("%w: %d bytes at %s, flash ends at 0x%X", ErrorCapacityExceeded, length, cursor, flashEnd)
	}

	crosses := func(cs ChipSelect) bool {
		csEnd := m.apertures[cs].End()
		return uint64(cursor) < csEnd && end > csEnd
	}

	if crosses(CS1) && m.apertures[CS1].Size != DefaultChipSelectSizes[CS1] {
		plan.From = CS1
		if m.apertures[CS2].Populated() {
			plan.To = CS2
		} else if m.apertures[CS0].Populated() {
			plan.To = CS0
		} else {
			plan.From = ChipSelectNone
		}
	}

	if crosses(CS2) {
		plan.From = CS2
		plan.To = CS0
	}

	if !plan.Relocated() {
		return plan, nil
	}

	target := m.apertures[plan.To]
	plan.Unused = uint32(m.apertures[plan.From].End() - uint64(cursor))
	plan.Start = target.Base

	if !target.Populated() || plan.Start < cursor || uint64(plan.Start)+uint64(length) > target.End() {
		return plan, fmt.Errorf("%w: %d bytes do not fit in %s", ErrorCapacityExceeded, length, plan.To)
	}

	return plan, nil
}

package main

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/BertoldVdb/dlp-tools/memregion"
)

type FirmwareListRegions struct {
	Firmware Firmware `embed`
}

func (l *FirmwareListRegions) Run(c *Context) error {
	img, err := l.Firmware.Load(c)
	if err != nil {
		return err
	}

	fmt.Println("Region       |     Length | Parent")

	for _, name := range img.MemoryRegionList() {
		m := img.MemoryRegionGet(name)
		if m == nil {
			continue
		}

		parent, offset := memregion.RecursiveGetParentAddress(m, 0)
		fmt.Printf("%-13s| %10d |", m.GetName(), m.GetLength())
		if parent != m {
			fmt.Printf(" %s.%06X", parent.GetName(), offset)
		}
		fmt.Printf("\n")
	}
	return nil
}

type Region struct {
	Region string `arg name:"region" help:"Memory region to access."`
	Addr   int    `arg name:"addr" help:"Address to access." type:"int"`
}

type FirmwareReadCmd struct {
	Filename string `optional help:"File to write dump to."`
	Compare  string `optional help:"Mark bytes that differ from the same region of this firmware."`

	Firmware Firmware `embed`
	Region   Region   `embed`
	Amount   int      `arg name:"amount" help:"Number of bytes to read, omit for maximum." optional default:"0"`
}

func readRegion(c *Context, f Firmware, r Region, amount int) ([]byte, error) {
	img, err := f.Load(c)
	if err != nil {
		return nil, err
	}

	region := img.MemoryRegionGet(memregion.NameType(r.Region))
	if region == nil {
		return nil, errors.New("Invalid memory region")
	}

	if amount == 0 {
		amount = region.GetLength() - r.Addr
	}
	if amount <= 0 {
		return nil, errors.New("Address out of range")
	}

	buf := make([]byte, amount)
	n, err := region.Access(false, r.Addr, buf)
	if err != nil {
		return nil, fmt.Errorf("Read error: %s", err.Error())
	}
	return buf[:n], nil
}

func (l *FirmwareReadCmd) Run(c *Context) error {
	buf, err := readRegion(c, l.Firmware, l.Region, l.Amount)
	if err != nil {
		return err
	}

	if l.Filename != "" {
		return ioutil.WriteFile(l.Filename, buf, 0644)
	}

	var mark []bool
	if l.Compare != "" {
		other, err := readRegion(c, Firmware{Firmware: l.Compare}, l.Region, len(buf))
		if err != nil {
			return err
		}

		mark = make([]bool, len(buf))
		for i := range buf {
			mark[i] = i >= len(other) || other[i] != buf[i]
		}
	}

	fmt.Println(hexdump(l.Region.Addr, buf, mark))
	return nil
}

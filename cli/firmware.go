package main

import (
	"errors"
	"os"

	"github.com/BertoldVdb/dlp-tools/dlpfw"
	"github.com/edsrzf/mmap-go"
)

type Firmware struct {
	Firmware string `arg name:"firmware" help:"Firmware image file." type:"existingfile"`
}

/* Maps the file and loads a copy of it, the mapping is released before returning */
func (f Firmware) Load(c *Context) (*dlpfw.Image, error) {
	file, err := os.Open(f.Firmware)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	st, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		return nil, errors.New("Firmware file is empty")
	}

	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()

	return dlpfw.Load(m, c.FirmwareConfig())
}

package main

import (
	"errors"
	"fmt"

	"github.com/BertoldVdb/dlp-tools/dlpfw"
)

type FirmwareInfoCmd struct {
	Firmware Firmware `embed`
}

func (l *FirmwareInfoCmd) Run(c *Context) error {
	img, err := l.Firmware.Load(c)
	if err != nil {
		return err
	}

	fmt.Printf("Flash table:   0x%06X\n", img.FlashTableOffset())
	fmt.Printf("Application:   %s\n", img.ApplConfigAddress())
	fmt.Printf("Splash data:   %s\n", img.SplashStartAddress())

	if version, err := img.Version(); err == nil {
		fmt.Printf("Version:       %d.%d.%d\n", byte(version>>16), byte(version>>8), byte(version))
	} else {
		fmt.Printf("Version:       unavailable (%v)\n", err)
	}

	count, err := img.SplashCount()
	if errors.Is(err, dlpfw.ErrorNoCatalog) || errors.Is(err, dlpfw.ErrorOutOfRange) {
		fmt.Println("Splash images: none")
		return nil
	} else if err != nil {
		return err
	}

	fmt.Printf("Splash images: %d\n\n", count)
	fmt.Println("Index | Address    | Size     | Width | Height | Compression")
	for i := 0; i < count; i++ {
		info, err := img.SplashInfo(i)
		if errors.Is(err, dlpfw.ErrorNoSplashImage) {
			fmt.Printf("%5d | empty\n", i)
			continue
		} else if err != nil {
			fmt.Printf("%5d | %v\n", i, err)
			continue
		}

		fmt.Printf("%5d | %s | %8d | %5d | %6d | %s\n", i, info.Address, info.Size,
			info.Header.Width, info.Header.Height, info.Header.Compression)
	}

	return nil
}

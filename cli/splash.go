package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/BertoldVdb/dlp-tools/dlpfw"
	"github.com/BertoldVdb/dlp-tools/dlpfw/bmp"
	"github.com/BertoldVdb/dlp-tools/dlpfw/codec"
)

type SplashExtractCmd struct {
	Firmware Firmware `embed`
	Output   string   `optional help:"Directory to write images to." default:"." type:"existingdir"`
	Index    int      `optional help:"Extract only this image, -1 for all." default:"-1"`
}

func (l *SplashExtractCmd) Run(c *Context) error {
	img, err := l.Firmware.Load(c)
	if err != nil {
		return err
	}

	count, err := img.SplashCount()
	if err != nil {
		return err
	}

	first, last := 0, count-1
	if l.Index >= 0 {
		if l.Index >= count {
			return fmt.Errorf("Firmware only has %d splash slots", count)
		}
		first, last = l.Index, l.Index
	}

	for i := first; i <= last; i++ {
		b, err := img.Splash(i)
		if errors.Is(err, dlpfw.ErrorNoSplashImage) {
			continue
		} else if err != nil {
			return fmt.Errorf("Splash %d: %w", i, err)
		}

		data, err := bmp.Encode(b)
		if err != nil {
			return err
		}

		name := filepath.Join(l.Output, fmt.Sprintf("splash%03d.bmp", i))
		if err := ioutil.WriteFile(name, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %dx%d image to %s.\n", b.Width, b.Height, name)
	}

	return nil
}

type SplashBuildCmd struct {
	Firmware Firmware `embed`
	Images   []string `arg name:"images" help:"BMP files to store, in slot order."`

	Output        string `optional help:"Write the firmware with the new catalog to this file."`
	SplashOutput  string `optional help:"Write only the catalog to this file."`
	TableOutput   string `optional help:"Write the updated flash table sector to this file."`
	SplashAddress int    `optional type:"hex" help:"Move the catalog to this flash offset." default:"-1"`
	Capacity      int    `optional help:"Number of catalog slots, 0 to use the number of images." default:"0"`
	Compression   string `optional enum:"auto,none,rle,4line" default:"auto" help:"Compression to use (auto, none, rle, 4line)."`
}

func (l *SplashBuildCmd) Run(c *Context) error {
	if l.Output == "" && l.SplashOutput == "" {
		return errors.New("Nothing to do, specify --output or --splash-output")
	}

	requested, err := codec.ParseCompression(l.Compression)
	if err != nil {
		return err
	}

	img, err := l.Firmware.Load(c)
	if err != nil {
		return err
	}

	if l.SplashAddress >= 0 {
		sector, err := img.UpdateFlashTableSplashAddress(uint32(l.SplashAddress))
		if err != nil {
			return err
		}
		if l.TableOutput != "" {
			if err := ioutil.WriteFile(l.TableOutput, sector, 0644); err != nil {
				return err
			}
			fmt.Printf("Flash table sector written to %s, program it at 0x%X.\n", l.TableOutput, img.FlashTableOffset())
		}
	} else if l.TableOutput != "" {
		return errors.New("--table-output requires --splash-address")
	}

	capacity := l.Capacity
	if capacity == 0 {
		capacity = len(l.Images)
	}
	if err := img.InitSplash(capacity); err != nil {
		return err
	}

	for i, name := range l.Images {
		data, err := ioutil.ReadFile(name)
		if err != nil {
			return err
		}

		b, err := bmp.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		used, size, err := img.AddSplash(b, requested)
		if errors.Is(err, dlpfw.ErrorCapacityExceeded) {
			fmt.Printf("Splash %d (%s) does not fit, slot left empty.\n", i, name)
			continue
		} else if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		fmt.Printf("Splash %d: %s, %dx%d, %s, %d bytes.\n", i, name, b.Width, b.Height, used, size)
	}

	if l.SplashOutput != "" {
		buf, err := img.SplashBuffer()
		if err != nil {
			return err
		}
		if err := ioutil.WriteFile(l.SplashOutput, buf, 0644); err != nil {
			return err
		}
		fmt.Printf("Catalog (%d bytes) written to %s, program it at 0x%X.\n",
			len(buf), l.SplashOutput, uint32(img.SplashStartAddress()-dlpfw.FlashBase))
	}

	if l.Output != "" {
		fw, err := img.Merge()
		if err != nil {
			return err
		}
		if err := ioutil.WriteFile(l.Output, fw, 0644); err != nil {
			return err
		}
		fmt.Printf("Firmware (%d bytes) written to %s.\n", len(fw), l.Output)
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"time"

	"github.com/BertoldVdb/dlp-tools/dlpc"
	"github.com/inancgumus/screen"
	"golang.org/x/term"
)

type StatusCmd struct {
	Loop bool `optional help:"Keep refreshing the status."`
}

func (l *StatusCmd) Run(c *Context) error {
	hal, err := c.HAL()
	if err != nil {
		return err
	}

	version, err := hal.GetVersion()
	if err != nil {
		return err
	}

	for {
		startTime := time.Now()

		status, err := hal.GetStatus()
		if err != nil {
			return err
		}

		if l.Loop {
			screen.Clear()
			screen.MoveTopLeft()
		}
		fmt.Println(version)
		fmt.Println(status)

		if !l.Loop {
			break
		}
		d := time.Now().Sub(startTime)
		td := 500 * time.Millisecond
		if d < td {
			time.Sleep(td - d)
		}
	}

	return nil
}

type LoadSplashCmd struct {
	Index int `arg name:"index" help:"Splash image to display."`
}

func (l *LoadSplashCmd) Run(c *Context) error {
	hal, err := c.HAL()
	if err != nil {
		return err
	}

	return hal.LoadSplash(l.Index)
}

type ResetCmd struct {
}

func (l *ResetCmd) Run(c *Context) error {
	hal, err := c.HAL()
	if err != nil {
		return err
	}

	return hal.SoftwareReset()
}

type FlashInfoCmd struct {
	Enter bool `optional help:"Switch the controller to programming mode first."`
}

func (l *FlashInfoCmd) Run(c *Context) error {
	hal, err := c.HAL()
	if err != nil {
		return err
	}

	if l.Enter {
		if err := hal.EnterProgrammingMode(); err != nil {
			return err
		}
	}

	mfg, err := hal.FlashManufacturerID()
	if err != nil {
		return err
	}
	dev, err := hal.FlashDeviceID()
	if err != nil {
		return err
	}

	fmt.Printf("Flash manufacturer 0x%04X, device 0x%04X\n", mfg, dev)
	return nil
}

type ProgramCmd struct {
	Filename string `arg name:"filename" help:"File to program." type:"existingfile"`
	Offset   int    `arg name:"offset" help:"Flash offset to program at." type:"hex" optional default:"0"`

	Enter bool `optional help:"Switch the controller to programming mode first."`
	Exit  bool `optional help:"Leave programming mode when done."`
}

func programProgress() dlpc.ProgressFunc {
	inPlace := term.IsTerminal(int(os.Stdout.Fd()))

	return func(p dlpc.Progress) {
		line := fmt.Sprintf("%-11s %8d/%d bytes %5.1f%% %s", p.Phase, p.BytesWritten, p.TotalBytes,
			p.Percentage, p.ElapsedTime.Truncate(100*time.Millisecond))
		if inPlace {
			fmt.Printf("\r%s", line)
			if p.Phase == "complete" {
				fmt.Println()
			}
		} else {
			fmt.Println(line)
		}
	}
}

func (l *ProgramCmd) Run(c *Context) error {
	data, err := ioutil.ReadFile(l.Filename)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("File is empty")
	}

	hal, err := c.HAL()
	if err != nil {
		return err
	}

	if l.Enter {
		if err := hal.EnterProgrammingMode(); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := hal.Program(ctx, l.Offset, data, programProgress()); err != nil {
		fmt.Println()
		if dlpc.IsChecksumMismatch(err) {
			return fmt.Errorf("Verification failed, flash contents are not valid: %w", err)
		}
		return err
	}

	if l.Exit {
		return hal.ExitProgrammingMode()
	}
	return nil
}

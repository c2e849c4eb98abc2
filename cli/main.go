package main

import (
	"fmt"
	"os"

	"github.com/BertoldVdb/dlp-tools/dlpc"
	"github.com/BertoldVdb/dlp-tools/dlpfw"
	"github.com/BertoldVdb/dlp-tools/gohid"
	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

type Context struct {
	dev gohid.HIDDevice
	hal *dlpc.HAL
	log *logrus.Logger
}

/* Opens the controller the first time a command needs it */
func (c *Context) HAL() (*dlpc.HAL, error) {
	if c.hal != nil {
		return c.hal, nil
	}

	dev, err := OpenDevice()
	if err != nil {
		return nil, fmt.Errorf("Failed to open device: %w", err)
	}

	config := dlpc.DefaultHALConfig()
	config.LogFunc = c.logFunc("HAL")

	hal, err := dlpc.New(dev, config)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("Failed to create HAL: %w", err)
	}

	c.dev = dev
	c.hal = hal
	return hal, nil
}

func (c *Context) Close() {
	if c.hal != nil {
		c.hal.Close()
	}
}

func (c *Context) FirmwareConfig() dlpfw.Config {
	config := dlpfw.DefaultConfig()
	config.LogFunc = c.logFunc("FW")
	return config
}

func (c *Context) logFunc(component string) func(level int, format string, param ...interface{}) {
	entry := c.log.WithField("component", component)

	return func(level int, format string, param ...interface{}) {
		switch {
		case level <= 1:
			entry.Infof(format, param...)
		case level == 2:
			entry.Debugf(format, param...)
		default:
			entry.Tracef(format, param...)
		}
	}
}

func newLogger(level int) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	switch {
	case level <= 0:
		l.SetLevel(logrus.WarnLevel)
	case level == 1:
		l.SetLevel(logrus.InfoLevel)
	case level == 2:
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetLevel(logrus.TraceLevel)
	}
	return l
}

var CLI struct {
	VID      int    `optional type:"hex" help:"The USB Vendor ID." default:"0451"`
	PID      int    `optional type:"hex" help:"The USB Product ID." default:"6401"`
	Serial   string `optional help:"The USB Serial."`
	RawPath  string `optional help:"The USB Device Path."`
	LogLevel int    `optional help:"Higher values give more output."`

	ListDev ListHIDCmd `cmd help:"List devices."`

	Info          FirmwareInfoCmd     `cmd help:"Show flash table and splash images of a firmware file."`
	ListRegions   FirmwareListRegions `cmd help:"List memory regions of a firmware file."`
	Read          FirmwareReadCmd     `cmd help:"Dump a memory region of a firmware file."`
	SplashExtract SplashExtractCmd    `cmd help:"Extract splash images from a firmware file as BMP."`
	SplashBuild   SplashBuildCmd      `cmd help:"Build a new splash catalog from BMP files."`

	Status     StatusCmd     `cmd help:"Show controller version and status."`
	Reset      ResetCmd      `cmd help:"Reset the controller."`
	LoadSplash LoadSplashCmd `cmd help:"Display a splash image stored in flash."`
	FlashInfo  FlashInfoCmd  `cmd help:"Show flash chip identification (programming mode)."`
	Program    ProgramCmd    `cmd help:"Program a file to flash."`
}

func main() {
	k, err := kong.New(&CLI,
		kong.NamedMapper("int", intMapper{}),
		kong.NamedMapper("hex", intMapper{base: 16}))
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}

	initHID()
	defer exitHID()

	c := &Context{log: newLogger(CLI.LogLevel)}
	defer c.Close()

	err = ctx.Run(c)
	ctx.FatalIfErrorf(err)
}

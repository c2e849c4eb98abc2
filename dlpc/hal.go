package dlpc

import (
	"time"

	"github.com/BertoldVdb/dlp-tools/gohid"
)

const (
	VendorID  = 0x0451
	ProductID = 0x6401
)

type HAL struct {
	dev    gohid.HIDDevice
	seq    uint8
	config HALConfig
}

type LogFunc func(level int, format string, param ...interface{})

type HALConfig struct {
	ReadTimeout time.Duration

	/* Longest time the bootloader may stay busy after an erase or checksum */
	BusyTimeout  time.Duration
	BusyInterval time.Duration

	/* Erase unit of the attached flash */
	SectorSize int

	/* Bytes sent per download command */
	ChunkSize int

	LogFunc LogFunc
}

func DefaultHALConfig() HALConfig {
	return HALConfig{
		ReadTimeout:  2 * time.Second,
		BusyTimeout:  10 * time.Second,
		BusyInterval: 10 * time.Millisecond,
		SectorSize:   0x20000,
		ChunkSize:    256,
	}
}

func New(dev gohid.HIDDevice, config HALConfig) (*HAL, error) {
	def := DefaultHALConfig()
	if config.ReadTimeout == 0 {
		config.ReadTimeout = def.ReadTimeout
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = def.BusyTimeout
	}
	if config.BusyInterval == 0 {
		config.BusyInterval = def.BusyInterval
	}
	if config.SectorSize == 0 {
		config.SectorSize = def.SectorSize
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = def.ChunkSize
	}

	if dev == nil || config.ChunkSize > maxPayload || config.SectorSize&(config.SectorSize-1) != 0 {
		return nil, ErrorWrongParams
	}

	return &HAL{
		dev:    dev,
		config: config,
	}, nil
}

func (h *HAL) log(level int, format string, param ...interface{}) {
	if h.config.LogFunc != nil {
		h.config.LogFunc(level, format, param...)
	}
}

func (h *HAL) Close() error {
	return h.dev.Close()
}

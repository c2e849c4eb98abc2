package dlpfw

type LogFunc func(level int, format string, param ...interface{})

type Config struct {
	/* Offsets probed for the flash table, in order */
	FlashTableOffsets []int

	/* Populated size of CS0, CS1 and CS2 in bytes */
	ChipSelectSizes [3]uint32

	/* Upper bound for any buffer built by this package */
	MaxBufferSize int

	LogFunc LogFunc
}

const DefaultMaxBufferSize = 64 * 1024 * 1024

func DefaultConfig() Config {
	return Config{
		FlashTableOffsets: DefaultFlashTableOffsets,
		ChipSelectSizes:   DefaultChipSelectSizes,
		MaxBufferSize:     DefaultMaxBufferSize,
	}
}

/* Fills in zero fields with their defaults */
func (c Config) withDefaults() Config {
	if len(c.FlashTableOffsets) == 0 {
		c.FlashTableOffsets = DefaultFlashTableOffsets
	}
	if c.ChipSelectSizes == [3]uint32{} {
		c.ChipSelectSizes = DefaultChipSelectSizes
	}
	if c.MaxBufferSize <= 0 {
		c.MaxBufferSize = DefaultMaxBufferSize
	}
	return c
}

func (c Config) log(level int, format string, param ...interface{}) {
	if c.LogFunc != nil {
		c.LogFunc(level, format, param...)
	}
}

package dlpc

import (
	"encoding/binary"
	"fmt"
)

const (
	CmdGetVersion   Command = 0x0205
	CmdStatusHW     Command = 0x1A0A
	CmdStatusSys    Command = 0x1A0B
	CmdStatusMain   Command = 0x1A0C
	CmdSoftReset    Command = 0x0802
	CmdSplashLoad   Command = 0x1A39
	CmdProgramMode  Command = 0x3001
	CmdBLStatus     Command = 0x0000
	CmdBLFlashInfo  Command = 0x0015
	CmdBLSectorAddr Command = 0x0029
	CmdBLErase      Command = 0x0028
	CmdBLDnldSize   Command = 0x002C
	CmdBLDnldData   Command = 0x0025
	CmdBLCalcCsum   Command = 0x0026
)

var commandNames = map[Command]string{
	CmdGetVersion:   "GET_VERSION",
	CmdStatusHW:     "STATUS_HW",
	CmdStatusSys:    "STATUS_SYS",
	CmdStatusMain:   "STATUS_MAIN",
	CmdSoftReset:    "SW_RESET",
	CmdSplashLoad:   "SPLASH_LOAD",
	CmdProgramMode:  "PROG_MODE",
	CmdBLStatus:     "BL_STATUS",
	CmdBLFlashInfo:  "BL_FLASH_INFO",
	CmdBLSectorAddr: "BL_SET_SECTADDR",
	CmdBLErase:      "BL_SECT_ERASE",
	CmdBLDnldSize:   "BL_SET_DNLDSIZE",
	CmdBLDnldData:   "BL_DNLD_DATA",
	CmdBLCalcCsum:   "BL_CALC_CHKSUM",
}

type Version struct {
	Application    uint32
	API            uint32
	SoftwareConfig uint32
	SequenceConfig uint32
}

/* Versions are packed as major.minor.patch in the top 8, next 8 and low 16 bits */
func formatVersion(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>24, (v>>16)&0xFF, v&0xFFFF)
}

func (v Version) String() string {
	return fmt.Sprintf("app %s, api %s, swconfig %s, seqconfig %s",
		formatVersion(v.Application), formatVersion(v.API),
		formatVersion(v.SoftwareConfig), formatVersion(v.SequenceConfig))
}

func (h *HAL) GetVersion() (Version, error) {
	r, err := h.read(CmdGetVersion, nil, 16)
	if err != nil {
		return Version{}, err
	}

	return Version{
		Application:    binary.LittleEndian.Uint32(r[0:]),
		API:            binary.LittleEndian.Uint32(r[4:]),
		SoftwareConfig: binary.LittleEndian.Uint32(r[8:]),
		SequenceConfig: binary.LittleEndian.Uint32(r[12:]),
	}, nil
}

type Status struct {
	Hardware byte
	System   byte
	Main     byte
}

func (s Status) InitDone() bool {
	return s.Hardware&0x01 != 0
}

func (s Status) String() string {
	return fmt.Sprintf("hw 0x%02X, sys 0x%02X, main 0x%02X", s.Hardware, s.System, s.Main)
}

func (h *HAL) GetStatus() (Status, error) {
	var s Status

	for _, reg := range []struct {
		cmd Command
		out *byte
	}{
		{CmdStatusHW, &s.Hardware},
		{CmdStatusSys, &s.System},
		{CmdStatusMain, &s.Main},
	} {
		r, err := h.read(reg.cmd, nil, 1)
		if err != nil {
			return s, err
		}
		*reg.out = r[0]
	}

	return s, nil
}

func (h *HAL) SoftwareReset() error {
	h.log(1, "Resetting controller")
	return h.write(CmdSoftReset, []byte{1})
}

// LoadSplash displays the splash image with the given index.
func (h *HAL) LoadSplash(index int) error {
	if index < 0 || index > 0xFF {
		return fmt.Errorf("%w: splash index %d", ErrorWrongParams, index)
	}
	return h.write(CmdSplashLoad, []byte{byte(index)})
}

func (h *HAL) EnterProgrammingMode() error {
	h.log(1, "Entering programming mode")
	return h.write(CmdProgramMode, []byte{1})
}

func (h *HAL) ExitProgrammingMode() error {
	h.log(1, "Leaving programming mode")
	return h.write(CmdProgramMode, []byte{2})
}

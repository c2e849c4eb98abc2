package dlpc

import (
	"encoding/binary"
	"time"
)

type sentMessage struct {
	flags   byte
	seq     byte
	cmd     Command
	payload []byte
}

type fakeReply struct {
	data []byte
	nack bool
}

/* Reassembles outgoing messages and queues replies from handler */
type fakeDevice struct {
	pending []byte
	replies [][]byte
	sent    []sentMessage

	handler   func(m sentMessage) fakeReply
	seqOffset byte
	silent    bool
}

func (d *fakeDevice) Write(b []byte) (int, error) {
	if len(b) != reportSize+1 || b[0] != 0 {
		panic("bad report")
	}
	d.pending = append(d.pending, b[1:]...)

	length := int(binary.LittleEndian.Uint16(d.pending[2:]))
	if len(d.pending) < headerSize+length {
		return len(b), nil
	}

	m := sentMessage{
		flags:   d.pending[0],
		seq:     d.pending[1],
		cmd:     Command(d.pending[5])<<8 | Command(d.pending[4]),
		payload: append([]byte(nil), d.pending[6:headerSize+length]...),
	}
	d.pending = nil
	d.sent = append(d.sent, m)

	if d.silent {
		return len(b), nil
	}

	var r fakeReply
	if d.handler != nil {
		r = d.handler(m)
	}

	msg := make([]byte, headerSize+len(r.data))
	msg[0] = m.flags &^ flagRead
	if r.nack {
		msg[0] |= flagNack
	}
	msg[1] = m.seq + d.seqOffset
	binary.LittleEndian.PutUint16(msg[2:], uint16(len(r.data)))
	copy(msg[headerSize:], r.data)

	for off := 0; off < len(msg); off += reportSize {
		report := make([]byte, reportSize)
		copy(report, msg[off:])
		d.replies = append(d.replies, report)
	}

	return len(b), nil
}

func (d *fakeDevice) ReadWithTimeout(b []byte, timeout time.Duration) (int, error) {
	if len(d.replies) == 0 {
		return 0, nil
	}
	n := copy(b, d.replies[0])
	d.replies = d.replies[1:]
	return n, nil
}

func (d *fakeDevice) Close() error {
	return nil
}

/* Bootloader model backing the flash programming tests */
type fakeBootloader struct {
	flash      []byte
	sectorSize int

	sectorAddr uint32
	dnldAddr   uint32
	busyPolls  int
	checksum   uint32
	corrupt    bool
	alwaysBusy bool
}

func (f *fakeBootloader) handle(m sentMessage) fakeReply {
	switch m.cmd {
	case CmdBLStatus:
		status := byte(0)
		if f.busyPolls > 0 || f.alwaysBusy {
			f.busyPolls--
			status = blStatusBusy
		}
		return fakeReply{data: []byte{status}}

	case CmdBLSectorAddr:
		f.sectorAddr = binary.LittleEndian.Uint32(m.payload) - flashBase
		f.dnldAddr = f.sectorAddr

	case CmdBLErase:
		for i := 0; i < f.sectorSize; i++ {
			f.flash[int(f.sectorAddr)+i] = 0xFF
		}
		f.busyPolls = 2

	case CmdBLDnldSize:

	case CmdBLDnldData:
		copy(f.flash[f.dnldAddr:], m.payload)
		f.dnldAddr += uint32(len(m.payload))

	case CmdBLCalcCsum:
		addr := binary.LittleEndian.Uint32(m.payload) - flashBase
		n := binary.LittleEndian.Uint32(m.payload[4:])
		f.checksum = Checksum(f.flash[addr : addr+n])
		if f.corrupt {
			f.checksum++
		}
		f.busyPolls = 1

	case CmdBLFlashInfo:
		switch m.payload[0] {
		case flashInfoChecksum:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], f.checksum)
			return fakeReply{data: b[:]}
		case flashInfoManufacturer:
			return fakeReply{data: []byte{0x20, 0x00}}
		case flashInfoDevice:
			return fakeReply{data: []byte{0x7E, 0x22}}
		}

	default:
		return fakeReply{nack: true}
	}

	return fakeReply{}
}

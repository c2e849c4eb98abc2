package dlpc

import (
	"encoding/binary"
	"fmt"
)

/* CMD2 in the high byte, CMD3 in the low byte */
type Command uint16

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("%02X%02X", byte(c>>8), byte(c))
}

const (
	reportSize     = 64
	headerSize     = 4
	maxMessageSize = 512
	maxPayload     = maxMessageSize - headerSize - 2

	flagRead  = 0x80
	flagReply = 0x40
	flagNack  = 0x20
)

func (h *HAL) buildMessage(read bool, cmd Command, payload []byte) ([]byte, error) {
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("%w: %d byte payload for %s", ErrorTooLong, len(payload), cmd)
	}

	flags := byte(flagReply)
	if read {
		flags |= flagRead
	}

	msg := make([]byte, headerSize+2+len(payload))
	msg[0] = flags
	msg[1] = h.seq
	binary.LittleEndian.PutUint16(msg[2:], uint16(2+len(payload)))
	msg[4] = byte(cmd)
	msg[5] = byte(cmd >> 8)
	copy(msg[6:], payload)

	h.seq++
	return msg, nil
}

/* Messages longer than a report are continued without a header */
func (h *HAL) sendMessage(msg []byte) error {
	for off := 0; off < len(msg); off += reportSize {
		var report [reportSize + 1]byte
		copy(report[1:], msg[off:])

		h.log(3, "OUT: %x", report[1:])
		if _, err := h.dev.Write(report[:]); err != nil {
			return err
		}
	}

	return nil
}

func (h *HAL) readReport() ([]byte, error) {
	var report [reportSize]byte

	n, err := h.dev.ReadWithTimeout(report[:], h.config.ReadTimeout)
	if err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrorTimeout
	}

	h.log(3, "IN: %x", report[:n])
	return report[:n], nil
}

func (h *HAL) receiveMessage(cmd Command, seq byte) ([]byte, error) {
	report, err := h.readReport()
	if err != nil {
		return nil, err
	}
	if len(report) < headerSize {
		return nil, fmt.Errorf("%w: short reply to %s", ErrorInvalidResponse, cmd)
	}

	flags := report[0]
	if flags&flagNack != 0 {
		return nil, &NackError{Command: cmd}
	}
	if report[1] != seq {
		return nil, fmt.Errorf("%w: sequence %d, expected %d", ErrorInvalidResponse, report[1], seq)
	}

	length := int(binary.LittleEndian.Uint16(report[2:]))
	if length > maxMessageSize-headerSize {
		return nil, fmt.Errorf("%w: reply length %d", ErrorInvalidResponse, length)
	}

	data := append([]byte(nil), report[headerSize:]...)
	for len(data) < length {
		report, err := h.readReport()
		if err != nil {
			return nil, err
		}
		data = append(data, report...)
	}

	return data[:length], nil
}

// Exchange sends a command and waits for the controller's reply. For read
// commands the reply must hold at least replyLen bytes.
func (h *HAL) Exchange(read bool, cmd Command, payload []byte, replyLen int) ([]byte, error) {
	msg, err := h.buildMessage(read, cmd, payload)
	if err != nil {
		return nil, err
	}
	if err := h.sendMessage(msg); err != nil {
		return nil, err
	}

	reply, err := h.receiveMessage(cmd, msg[1])
	if err != nil {
		return nil, err
	}
	if len(reply) < replyLen {
		return nil, fmt.Errorf("%w: %s returned %d bytes, expected %d", ErrorInvalidResponse, cmd, len(reply), replyLen)
	}

	return reply, nil
}

func (h *HAL) read(cmd Command, param []byte, replyLen int) ([]byte, error) {
	return h.Exchange(true, cmd, param, replyLen)
}

func (h *HAL) write(cmd Command, payload []byte) error {
	_, err := h.Exchange(false, cmd, payload, 0)
	return err
}

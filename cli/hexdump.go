package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const hexdumpWidth = 32

/* Bytes with mark set are printed in red */
func hexdump(offset int, data []byte, mark []bool) string {
	var result strings.Builder
	red := color.New(color.FgRed)

	for line := 0; line < len(data); line += hexdumpWidth {
		var hex, ascii strings.Builder

		for i := 0; i < hexdumpWidth; i++ {
			pos := line + i
			if pos >= len(data) {
				hex.WriteString("   ")
				ascii.WriteByte(' ')
			} else {
				m := data[pos]
				c := m
				if c < 32 || c > 126 {
					c = '.'
				}

				if mark != nil && pos < len(mark) && mark[pos] {
					hex.WriteString(red.Sprintf("%02x ", m))
					ascii.WriteString(red.Sprintf("%c", c))
				} else {
					fmt.Fprintf(&hex, "%02x ", m)
					ascii.WriteByte(c)
				}
			}

			if i%8 == 7 {
				hex.WriteByte(' ')
			}
		}

		fmt.Fprintf(&result, "%08x  %s|%s|\n", offset+line, hex.String(), ascii.String())
	}

	return result.String()
}

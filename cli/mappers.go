package main

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
)

/* Parses integers, base 16 values may carry a 0x prefix */
type intMapper struct {
	base int
}

func (h intMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := ctx.Scan.PopValueInto("int", &value)
	if err != nil {
		return err
	}

	if h.base == 16 {
		neg := strings.HasPrefix(value, "-")
		value = strings.TrimPrefix(value, "-")
		value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
		if neg {
			value = "-" + value
		}
	}

	i, err := strconv.ParseInt(strings.ReplaceAll(value, "_", ""), h.base, 64)
	if err != nil {
		return err
	}
	target.SetInt(i)
	return nil
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skryldev/ibmi-toolkit/ibmtime"
)

var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", time.DateTime, time.DateOnly}

// runDate handles "date decode" and "date encode". It needs no connection.
func runDate(args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("date: usage: date decode|encode <value> [...]")
	}
	switch args[0] {
	case "decode":
		return decode(args[1:], out)
	case "encode":
		return encode(args[1:], out)
	default:
		return fmt.Errorf("date: unknown subcommand %q", args[0])
	}
}

func decode(args []string, out io.Writer) error {
	packedDate, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("date decode: %w", err)
	}

	var t time.Time
	switch len(args) {
	case 1:
		t = ibmtime.DecodeDateDecimal(packedDate)
	case 3:
		packedTime, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("date decode: %w", err)
		}
		width, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("date decode: width: %w", err)
		}
		if err := ibmtime.ValidWidth(width); err != nil {
			return err
		}
		t = ibmtime.DecodeDateTimeDecimal(packedDate, packedTime, width)
	default:
		return fmt.Errorf("date decode: expected <date> or <date> <time> <width>")
	}

	if t.Equal(ibmtime.Absent) {
		fmt.Fprintln(out, "absent")
		return nil
	}
	fmt.Fprintln(out, t.Format(time.DateTime))
	return nil
}

func encode(args []string, out io.Writer) error {
	t, err := parseTimestamp(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		fmt.Fprintln(out, ibmtime.EncodeDate(t))
		return nil
	}
	width, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("date encode: width: %w", err)
	}
	if err := ibmtime.ValidWidth(width); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d %d\n", ibmtime.EncodeDate(t), ibmtime.EncodeTime(t, width))
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date encode: cannot parse %q as a timestamp", s)
}

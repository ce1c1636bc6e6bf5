package ibmtime

import (
	"time"

	"github.com/shopspring/decimal"
)

// DecodeDateDecimal is DecodeDate for NUMERIC/DECIMAL column values.
// The canonical text of packed is split exactly as DecodeDate splits the
// text of an int.
func DecodeDateDecimal(packed decimal.Decimal) time.Time {
	if packed.IsZero() {
		return Absent
	}
	return decodeDateText(packed.String())
}

// DecodeDateTimeDecimal is DecodeDateTime for NUMERIC/DECIMAL column values.
// A fractional time is rounded to the nearest integer before padding.
func DecodeDateTimeDecimal(packedDate, packedTime decimal.Decimal, width int) time.Time {
	if packedDate.IsZero() && packedTime.IsZero() {
		return Absent
	}
	return decodeDateTimeText(packedDate.String(), int(packedTime.Round(0).IntPart()), width)
}

// EncodeDateDecimal is EncodeDate returning a scale-0 decimal, ready to bind
// to a NUMERIC(8,0) parameter.
func EncodeDateDecimal(t time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(EncodeDate(t)))
}

package ibmtime

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PackedDate is a time.Time stored in a NUMERIC(8,0) YYYYMMDD column.
//
// Scan accepts whatever the driver hands back for a numeric column: int64,
// float64, or decimal text ([]byte / string). NULL and 0 scan as Absent.
// Value writes Absent as 0.
type PackedDate struct {
	Time time.Time
}

// NewPackedDate wraps t.
func NewPackedDate(t time.Time) PackedDate { return PackedDate{Time: t} }

// Packed returns the YYYYMMDD integer.
func (p PackedDate) Packed() int { return EncodeDate(p.Time) }

// IsAbsent reports whether p holds no date.
func (p PackedDate) IsAbsent() bool { return p.Time.Equal(Absent) }

func (p PackedDate) String() string {
	if p.IsAbsent() {
		return "0"
	}
	return p.Time.Format(time.DateOnly)
}

// Scan implements sql.Scanner.
func (p *PackedDate) Scan(src any) error {
	if t, ok := src.(time.Time); ok {
		p.Time = t
		return nil
	}
	var n decimal.NullDecimal
	if err := n.Scan(src); err != nil {
		return fmt.Errorf("ibmi/ibmtime: scan packed date from %T: %w", src, err)
	}
	if !n.Valid {
		p.Time = Absent
		return nil
	}
	p.Time = DecodeDateDecimal(n.Decimal)
	return nil
}

// Value implements driver.Valuer.
func (p PackedDate) Value() (driver.Value, error) {
	return int64(p.Packed()), nil
}

var (
	_ sql.Scanner   = (*PackedDate)(nil)
	_ driver.Valuer = PackedDate{}
)

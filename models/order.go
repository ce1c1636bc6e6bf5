package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one row of the ORDHDR order-header file. OrderedAt is stored as
// a packed date (OHDAT) plus a packed HHMMSS time (OHTIM); ShipDate as a
// packed date (OHSHP) where ibmtime.Absent means "not shipped".
type Order struct {
	Number    int64
	Customer  int64
	Reference string
	OrderedAt time.Time
	ShipDate  time.Time
	Amount    decimal.Decimal
}

// DateRange selects orders by order date, both ends inclusive. Only the
// date part of From and To is used.
type DateRange struct {
	From time.Time
	To   time.Time
}

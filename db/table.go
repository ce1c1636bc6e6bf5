package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skryldev/ibmi-toolkit/ibmtime"
)

// Column describes one result column of a Table.
type Column struct {
	Name         string
	DatabaseType string
	Nullable     bool
}

// Table is a fully buffered result set. Values are whatever the driver
// returned; DECIMAL and NUMERIC columns usually arrive as []byte text.
type Table struct {
	Columns []Column
	Rows    [][]any

	index map[string]int
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column, or -1.
// IBM i reports column names in upper case, so the lookup ignores case.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[strings.ToUpper(name)]; ok {
		return i
	}
	return -1
}

// Value returns the value at row/column, or nil when the column is unknown.
func (t *Table) Value(row int, column string) any {
	i := t.ColumnIndex(column)
	if i < 0 {
		return nil
	}
	return t.Rows[row][i]
}

// String returns the value at row/column as text with trailing blanks
// removed (CHAR columns are blank padded).
func (t *Table) String(row int, column string) string {
	switch v := t.Value(row, column).(type) {
	case nil:
		return ""
	case []byte:
		return strings.TrimRight(string(v), " ")
	case string:
		return strings.TrimRight(v, " ")
	default:
		return fmt.Sprint(v)
	}
}

// Decimal returns the numeric value at row/column. NULL reads as zero.
func (t *Table) Decimal(row int, column string) (decimal.Decimal, error) {
	var n decimal.NullDecimal
	if err := n.Scan(t.Value(row, column)); err != nil {
		return decimal.Zero, fmt.Errorf("ibmi/db: column %s: %w", column, err)
	}
	return n.Decimal, nil
}

// Date decodes a packed YYYYMMDD column. Unreadable values decode to
// ibmtime.Absent.
func (t *Table) Date(row int, column string) time.Time {
	var p ibmtime.PackedDate
	if err := p.Scan(t.Value(row, column)); err != nil {
		return ibmtime.Absent
	}
	return p.Time
}

// DateTime decodes a packed date column and a packed time column of the
// given width (4 or 6).
func (t *Table) DateTime(row int, dateColumn, timeColumn string, width int) time.Time {
	d, err := t.Decimal(row, dateColumn)
	if err != nil {
		return ibmtime.Absent
	}
	tm, err := t.Decimal(row, timeColumn)
	if err != nil {
		return ibmtime.Absent
	}
	return ibmtime.DecodeDateTimeDecimal(d, tm, width)
}

// fill drains rows into a new Table.
func fill(rows *sql.Rows) (*Table, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	t := &Table{
		Columns: make([]Column, len(types)),
		index:   make(map[string]int, len(types)),
	}
	for i, ct := range types {
		nullable, _ := ct.Nullable()
		t.Columns[i] = Column{
			Name:         ct.Name(),
			DatabaseType: ct.DatabaseTypeName(),
			Nullable:     nullable,
		}
		key := strings.ToUpper(ct.Name())
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}

	for rows.Next() {
		values := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("ibmi/db: scan: %w", err)
		}
		t.Rows = append(t.Rows, values)
	}
	return t, rows.Err()
}

package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skryldev/ibmi-toolkit/db"
	"github.com/Skryldev/ibmi-toolkit/ibmtime"
	"github.com/Skryldev/ibmi-toolkit/models"
)

// OrderRepository persists order headers in ORDHDR.
type OrderRepository interface {
	Insert(ctx context.Context, o models.Order) error
	Get(ctx context.Context, number int64) (*models.Order, error)
	ListByDateRange(ctx context.Context, r models.DateRange) ([]*models.Order, error)
	MarkShipped(ctx context.Context, number int64, shipped time.Time) error
	Delete(ctx context.Context, number int64) error
	Count(ctx context.Context) (int64, error)
}

// orderRepo is backed by a db.Querier.
type orderRepo struct {
	q db.Querier
}

// NewOrderRepo returns an OrderRepository backed by q.
func NewOrderRepo(q db.Querier) OrderRepository {
	return &orderRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL
// ─────────────────────────────────────────────────────────────────────────────

const (
	orderColumns = `OHORD, OHCUS, OHREF, OHDAT, OHTIM, OHSHP, OHAMT`

	sqlInsertOrder = `
		INSERT INTO ORDHDR (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	sqlGetOrder = `
		SELECT ` + orderColumns + `
		FROM   ORDHDR
		WHERE  OHORD = ?`

	sqlListOrdersByDate = `
		SELECT ` + orderColumns + `
		FROM   ORDHDR
		WHERE  OHDAT BETWEEN ? AND ?
		ORDER  BY OHDAT, OHTIM, OHORD`

	sqlShipOrder = `
		UPDATE ORDHDR SET OHSHP = ? WHERE OHORD = ?`

	sqlDeleteOrder = `
		DELETE FROM ORDHDR WHERE OHORD = ?`

	sqlCountOrders = `
		SELECT COUNT(*) FROM ORDHDR`
)

// ─────────────────────────────────────────────────────────────────────────────
// Operations
// ─────────────────────────────────────────────────────────────────────────────

// Insert writes o. OrderedAt is split into packed date and HHMMSS time.
func (r *orderRepo) Insert(ctx context.Context, o models.Order) error {
	_, err := r.q.Exec(ctx, sqlInsertOrder,
		o.Number,
		o.Customer,
		o.Reference,
		ibmtime.EncodeDate(o.OrderedAt),
		ibmtime.EncodeTime(o.OrderedAt, ibmtime.Width6),
		ibmtime.NewPackedDate(o.ShipDate),
		o.Amount,
	)
	if err != nil {
		return fmt.Errorf("repo/order: insert %d: %w", o.Number, err)
	}
	return nil
}

// Get returns one order. Returns db.ErrNotFound when no record matches.
func (r *orderRepo) Get(ctx context.Context, number int64) (*models.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, sqlGetOrder, number).Scan)
	if err != nil {
		return nil, fmt.Errorf("repo/order: get %d: %w", number, err)
	}
	return o, nil
}

// ListByDateRange returns orders whose OHDAT falls inside rng, oldest first.
func (r *orderRepo) ListByDateRange(ctx context.Context, rng models.DateRange) ([]*models.Order, error) {
	from, to := ibmtime.EncodeDate(rng.From), ibmtime.EncodeDate(rng.To)
	if rng.To.IsZero() {
		to = 99991231
	}

	var orders []*models.Order
	err := r.q.QueryEach(ctx, sqlListOrdersByDate, []any{from, to}, func(rows *sql.Rows) error {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return err
		}
		orders = append(orders, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo/order: list: %w", err)
	}
	return orders, nil
}

// MarkShipped records the ship date of an order.
// Returns db.ErrNotFound if the order does not exist.
func (r *orderRepo) MarkShipped(ctx context.Context, number int64, shipped time.Time) error {
	res, err := r.q.Exec(ctx, sqlShipOrder, ibmtime.NewPackedDate(shipped), number)
	return affectedOne(res, err, "ship", number)
}

// Delete removes an order.
// Returns db.ErrNotFound if no row was deleted.
func (r *orderRepo) Delete(ctx context.Context, number int64) error {
	res, err := r.q.Exec(ctx, sqlDeleteOrder, number)
	return affectedOne(res, err, "delete", number)
}

// Count returns the number of orders.
func (r *orderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, sqlCountOrders).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo/order: count: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

// scanOrder reads one record in orderColumns order. The packed date and
// time columns come back as int64 or decimal text depending on the driver.
func scanOrder(scan func(dest ...any) error) (*models.Order, error) {
	var (
		o         models.Order
		date, tim decimal.NullDecimal
		ship      ibmtime.PackedDate
	)
	if err := scan(&o.Number, &o.Customer, &o.Reference, &date, &tim, &ship, &o.Amount); err != nil {
		return nil, err
	}
	o.Reference = strings.TrimRight(o.Reference, " ")
	o.OrderedAt = ibmtime.DecodeDateTimeDecimal(date.Decimal, tim.Decimal, ibmtime.Width6)
	o.ShipDate = ship.Time
	return &o, nil
}

func affectedOne(res sql.Result, err error, op string, number int64) error {
	if err != nil {
		return fmt.Errorf("repo/order: %s %d: %w", op, number, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repo/order: %s %d: %w", op, number, err)
	}
	if n == 0 {
		return fmt.Errorf("repo/order: %s %d: %w", op, number, db.ErrNotFound)
	}
	return nil
}

var _ OrderRepository = (*orderRepo)(nil)

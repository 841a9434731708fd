package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrPaymentNotFound is returned when a payment lookup fails.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo provides persistence for payment records.  Payments are
// created once, when a booking is paid, and read back for customer and
// admin listings.  All timestamp fields are stored in UTC.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// PaymentRecord mirrors the schema of the payments table.
type PaymentRecord struct {
	ID            uint64
	BookingID     uint64
	AmountCents   uint64
	Method        string
	TransactionID string
	Status        string
	PaidAt        time.Time
	CreatedAt     time.Time
}

const paymentColumns = `id, booking_id, amount_cents, method, transaction_id, status, paid_at, created_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*PaymentRecord, error) {
	var p PaymentRecord
	if err := row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Method,
		&p.TransactionID, &p.Status, &p.PaidAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistsCompletedTx reports whether a completed payment already exists for
// the booking, within a transaction.  Payment processing holds the booking
// row lock while calling this, which makes the at-most-one-completed-payment
// invariant safe under concurrent requests.
func (r *PaymentRepo) ExistsCompletedTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM payments WHERE booking_id = ? AND status = 'completed'`
	var n int
	if err := tx.QueryRowContext(ctx, q, bookingID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a payment within the scope of an existing transaction
// and reads the row back to populate generated fields.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *PaymentRecord) error {
	const q = `INSERT INTO payments (booking_id, amount_cents, method, transaction_id, status, paid_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.Method,
		p.TransactionID, p.Status, p.PaidAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	got, err := scanPayment(tx.QueryRowContext(ctx, sel, p.ID))
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// PaymentDetail is a payment joined with its booking and hall for display.
// UserID identifies the booking owner and is used by handlers to enforce
// access; it is not serialized for customers.
type PaymentDetail struct {
	ID            uint64 `json:"id"`
	BookingID     uint64 `json:"bookingId"`
	HallName      string `json:"hallName"`
	HallLocation  string `json:"hallLocation"`
	AmountCents   uint64 `json:"amountCents"`
	Method        string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	PaidAt        string `json:"paidAt"`
	UserID        uint64 `json:"-"`
	UserName      string `json:"userName,omitempty"`
	UserEmail     string `json:"userEmail,omitempty"`
}

const paymentDetailQuery = `SELECT p.id, p.booking_id, h.name, h.location,
	       p.amount_cents, p.method, p.transaction_id, p.status, p.paid_at,
	       b.user_id, u.name, u.email
	FROM payments p
	JOIN bookings b ON b.id = p.booking_id
	JOIN halls h ON h.id = b.hall_id
	JOIN users u ON u.id = b.user_id`

func scanPaymentDetail(row interface{ Scan(...interface{}) error }) (*PaymentDetail, error) {
	var d PaymentDetail
	var paidAt time.Time
	if err := row.Scan(&d.ID, &d.BookingID, &d.HallName, &d.HallLocation,
		&d.AmountCents, &d.Method, &d.TransactionID, &d.Status, &paidAt,
		&d.UserID, &d.UserName, &d.UserEmail); err != nil {
		return nil, err
	}
	d.PaidAt = paidAt.UTC().Format(time.RFC3339)
	return &d, nil
}

// GetDetailByID returns a single payment with booking/hall/user context.
// It returns ErrPaymentNotFound when no row exists; the caller checks
// UserID against the requesting user for access control.
func (r *PaymentRepo) GetDetailByID(ctx context.Context, id uint64) (*PaymentDetail, error) {
	const q = paymentDetailQuery + ` WHERE p.id = ?`
	d, err := scanPaymentDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByUser returns all payments belonging to the user's bookings,
// newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]PaymentDetail, error) {
	const q = paymentDetailQuery + ` WHERE b.user_id = ? ORDER BY p.paid_at DESC`
	return r.listDetails(ctx, q, userID)
}

// ListAll returns every payment with booking context for the admin
// surface, newest first.  When onlyCompleted is set, pending/failed/
// refunded records are excluded; a non-positive limit returns all rows.
func (r *PaymentRepo) ListAll(ctx context.Context, onlyCompleted bool, limit int) ([]PaymentDetail, error) {
	q := paymentDetailQuery
	args := []interface{}{}
	if onlyCompleted {
		q += ` WHERE p.status = 'completed'`
	}
	q += ` ORDER BY p.paid_at DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.listDetails(ctx, q, args...)
}

func (r *PaymentRepo) listDetails(ctx context.Context, q string, args ...interface{}) ([]PaymentDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]PaymentDetail, 0)
	for rows.Next() {
		d, err := scanPaymentDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// TotalCompletedCents sums completed payment amounts for revenue
// reporting on the admin dashboard.
func (r *PaymentRepo) TotalCompletedCents(ctx context.Context) (uint64, error) {
	const q = `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE status = 'completed'`
	var total uint64
	if err := r.db.QueryRowContext(ctx, q).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

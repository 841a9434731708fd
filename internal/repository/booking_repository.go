package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// dateFormat is the wire format for booking dates.  Dates are stored in
// DATE columns and exposed as plain YYYY-MM-DD strings.
const dateFormat = "2006-01-02"

// BookingRepo provides CRUD operations for bookings.  Bookings reserve a
// hall for a date range and carry a lifecycle status; they are updated in
// place and never deleted.  All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// BookingRecord mirrors the schema of the bookings table.  It is used
// internally by the repository when constructing or scanning rows.
type BookingRecord struct {
	ID               uint64
	UserID           uint64
	HallID           uint64
	StartDate        time.Time
	EndDate          time.Time
	GuestCount       uint32
	TotalAmountCents uint64
	SpecialRequests  *string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const bookingColumns = `id, user_id, hall_id, start_date, end_date, guest_count, total_amount_cents, special_requests, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*BookingRecord, error) {
	var b BookingRecord
	var special sql.NullString
	if err := row.Scan(&b.ID, &b.UserID, &b.HallID, &b.StartDate, &b.EndDate,
		&b.GuestCount, &b.TotalAmountCents, &special, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if special.Valid {
		s := special.String
		b.SpecialRequests = &s
	}
	return &b, nil
}

// ExistsOverlap reports whether any non-cancelled booking for the hall
// overlaps the requested date range under the inclusive predicate
// (existing.start <= requestedEnd AND existing.end >= requestedStart).
// Adjacent bookings count as overlapping, so back-to-back same-day
// bookings are rejected.  The check is read-only.
func (r *BookingRepo) ExistsOverlap(ctx context.Context, hallID uint64, start, end time.Time) (bool, error) {
	return existsOverlap(ctx, r.db, hallID, start, end)
}

// ExistsOverlapTx is ExistsOverlap executed within an existing transaction.
// Callers creating bookings must hold the hall row lock first so that the
// check and the subsequent insert are serialized against concurrent
// requests for the same hall.
func (r *BookingRepo) ExistsOverlapTx(ctx context.Context, tx *sql.Tx, hallID uint64, start, end time.Time) (bool, error) {
	return existsOverlap(ctx, tx, hallID, start, end)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func existsOverlap(ctx context.Context, q querier, hallID uint64, start, end time.Time) (bool, error) {
	const query = `SELECT COUNT(*) FROM bookings
	               WHERE hall_id = ? AND status <> 'cancelled'
	                 AND start_date <= ? AND end_date >= ?`
	var n int
	if err := q.QueryRowContext(ctx, query, hallID,
		end.Format(dateFormat), start.Format(dateFormat)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and reads the row back to populate generated fields.  The
// caller must commit or rollback the transaction.  Status should be a
// valid enumeration value; new bookings start as 'pending'.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *BookingRecord) error {
	const q = `INSERT INTO bookings (user_id, hall_id, start_date, end_date, guest_count, total_amount_cents, special_requests, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var special sql.NullString
	if b.SpecialRequests != nil {
		special = sql.NullString{String: *b.SpecialRequests, Valid: true}
	}
	res, err := tx.ExecContext(ctx, q, b.UserID, b.HallID,
		b.StartDate.Format(dateFormat), b.EndDate.Format(dateFormat),
		b.GuestCount, b.TotalAmountCents, special, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetByID retrieves a booking by its ID.  It returns ErrBookingNotFound
// when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*BookingRecord, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetForUpdateTx retrieves a booking with a row lock inside the given
// transaction.  Lifecycle transitions read the current status under this
// lock so that concurrent status changes and payments serialize.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*BookingRecord, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// UpdateStatusTx sets the booking status within a transaction.  Legality
// of the transition is the caller's responsibility (see model.CanTransition).
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	return err
}

// BookingDetail is a booking joined with its hall for display to the
// booking's owner.
type BookingDetail struct {
	ID               uint64  `json:"id"`
	HallID           uint64  `json:"hallId"`
	HallName         string  `json:"hallName"`
	HallLocation     string  `json:"hallLocation"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	GuestCount       uint32  `json:"guestCount"`
	TotalAmountCents uint64  `json:"totalAmountCents"`
	SpecialRequests  *string `json:"specialRequests,omitempty"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"createdAt"`
}

// AdminBookingDetail extends BookingDetail with the owning user's identity
// for administrator listings.
type AdminBookingDetail struct {
	BookingDetail
	UserID    uint64 `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

const bookingDetailQuery = `SELECT b.id, b.hall_id, h.name, h.location,
	       b.start_date, b.end_date, b.guest_count, b.total_amount_cents,
	       b.special_requests, b.status, b.created_at,
	       b.user_id, u.name, u.email
	FROM bookings b
	JOIN halls h ON h.id = b.hall_id
	JOIN users u ON u.id = b.user_id`

func scanBookingDetail(rows *sql.Rows) (*AdminBookingDetail, error) {
	var d AdminBookingDetail
	var start, end time.Time
	var special sql.NullString
	var createdAt time.Time
	if err := rows.Scan(&d.ID, &d.HallID, &d.HallName, &d.HallLocation,
		&start, &end, &d.GuestCount, &d.TotalAmountCents,
		&special, &d.Status, &createdAt,
		&d.UserID, &d.UserName, &d.UserEmail); err != nil {
		return nil, err
	}
	d.StartDate = start.Format(dateFormat)
	d.EndDate = end.Format(dateFormat)
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	if special.Valid {
		s := special.String
		d.SpecialRequests = &s
	}
	return &d, nil
}

// ListByUser returns all bookings for the given user along with hall
// details, newest first.  When no bookings exist, an empty slice is
// returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = bookingDetailQuery + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d.BookingDetail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListAll returns every booking with user and hall details for the admin
// surface, newest first.  A non-positive limit returns all rows.
func (r *BookingRepo) ListAll(ctx context.Context, limit int) ([]AdminBookingDetail, error) {
	q := bookingDetailQuery + ` ORDER BY b.created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]AdminBookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
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

// CountByStatus returns booking counts grouped by status.  Statuses with
// no bookings are absent from the map.
func (r *BookingRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM bookings GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

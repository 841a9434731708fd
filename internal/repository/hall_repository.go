package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// HallRecord mirrors the schema of the halls table.  Amenity and image
// lists are stored as JSON text columns and encoded/decoded by the
// repository.  Business logic should use the model.Hall type instead.
type HallRecord struct {
	ID               uint64
	Name             string
	Description      string
	Capacity         uint32
	PricePerDayCents uint32
	Location         string
	Amenities        []string
	Images           []string
	IsAvailable      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HallRepo provides CRUD operations for halls.  It embeds a database
// handle to perform queries and commands.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *HallRepo) DB() *sql.DB { return r.db }

const hallColumns = `id, name, description, capacity, price_per_day_cents, location, amenities, images, is_available, created_at, updated_at`

// scanHall scans one halls row into a HallRecord, decoding the JSON list
// columns.  NULL lists decode to empty slices so callers never see nil.
func scanHall(row interface{ Scan(...interface{}) error }) (*HallRecord, error) {
	var h HallRecord
	var amenities, images sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Capacity, &h.PricePerDayCents,
		&h.Location, &amenities, &images, &h.IsAvailable, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.Amenities = decodeStringList(amenities)
	h.Images = decodeStringList(images)
	return &h, nil
}

func decodeStringList(ns sql.NullString) []string {
	out := []string{}
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStringList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Create inserts a new hall and reads the row back to populate generated
// fields.  Name, Capacity, PricePerDayCents and Location must be set by
// the caller; the availability flag defaults to true in the schema.
func (r *HallRepo) Create(ctx context.Context, h *HallRecord) error {
	const q = `INSERT INTO halls (name, description, capacity, price_per_day_cents, location, amenities, images)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Description, h.Capacity, h.PricePerDayCents,
		h.Location, encodeStringList(h.Amenities), encodeStringList(h.Images))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	got, err := r.GetByID(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = *got
	return nil
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound when no
// row exists.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*HallRecord, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return h, nil
}

// LockTx takes a row lock on the hall within the transaction.  Concurrent
// booking creation for the same hall serializes on this lock, which keeps
// the availability check and the insert atomic with respect to each other.
// Returns ErrHallNotFound when the hall does not exist.
func (r *HallRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `SELECT id FROM halls WHERE id = ? FOR UPDATE`
	var got uint64
	if err := tx.QueryRowContext(ctx, q, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrHallNotFound
		}
		return err
	}
	return nil
}

// List returns all halls ordered by creation time descending.
func (r *HallRepo) List(ctx context.Context) ([]HallRecord, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	halls := make([]HallRecord, 0)
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		halls = append(halls, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return halls, nil
}

// Update applies a partial update to a hall.  Nil pointers leave the
// corresponding column untouched.  It returns ErrHallNotFound when the
// hall does not exist and the refreshed record on success.
func (r *HallRepo) Update(ctx context.Context, id uint64, upd HallUpdate) (*HallRecord, error) {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*upd.Name))
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Capacity != nil {
		sets = append(sets, "capacity = ?")
		args = append(args, *upd.Capacity)
	}
	if upd.PricePerDayCents != nil {
		sets = append(sets, "price_per_day_cents = ?")
		args = append(args, *upd.PricePerDayCents)
	}
	if upd.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *upd.Location)
	}
	if upd.Amenities != nil {
		sets = append(sets, "amenities = ?")
		args = append(args, encodeStringList(*upd.Amenities))
	}
	if upd.Images != nil {
		sets = append(sets, "images = ?")
		args = append(args, encodeStringList(*upd.Images))
	}
	if upd.IsAvailable != nil {
		sets = append(sets, "is_available = ?")
		args = append(args, *upd.IsAvailable)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	q := "UPDATE halls SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update,
		// so confirm existence with a read.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// HallUpdate carries optional fields for Update.  A nil pointer means
// "leave unchanged".
type HallUpdate struct {
	Name             *string
	Description      *string
	Capacity         *uint32
	PricePerDayCents *uint32
	Location         *string
	Amenities        *[]string
	Images           *[]string
	IsAvailable      *bool
}

// Delete removes a hall.  Deletion is refused with ErrConflict while any
// non-cancelled booking references the hall, because bookings are never
// physically deleted and must keep a valid hall reference for auditing.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	const check = `SELECT COUNT(*) FROM bookings WHERE hall_id = ? AND status <> 'cancelled'`
	var n int
	if err := r.db.QueryRowContext(ctx, check, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrHallNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/wedding-hall-booking/internal/model"
	"github.com/iliyamo/wedding-hall-booking/internal/utils"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,name,email,password_hash,phone,role,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &phone,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	return u, err
}

// Create inserts a user and returns its ID.  The role must be a known
// role string; the enum column would reject anything else anyway, but
// failing here gives a clearer error.
func (r *UserRepo) Create(ctx context.Context, name, email, password, phone, role string, cost int) (uint64, error) {
	if !model.ValidRole(role) {
		return 0, errors.New("invalid role: " + role)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var phoneVal sql.NullString
	if p := strings.TrimSpace(phone); p != "" {
		phoneVal = sql.NullString{String: p, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, phone, role) VALUES (?,?,?,?,?)",
		strings.TrimSpace(name), email, hash, phoneVal, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ListAdminIDs returns the IDs of every active administrator.  The
// notification dispatcher fans lifecycle events out to this set.
func (r *UserRepo) ListAdminIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM users WHERE role='admin' AND is_active=1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// CustomerSummary is the admin-facing view of a customer account.
type CustomerSummary struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
}

// ListCustomers returns every customer account for the admin user table,
// newest first.  Password hashes are never included.
func (r *UserRepo) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,phone,is_active,created_at FROM users WHERE role='customer' ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CustomerSummary, 0)
	for rows.Next() {
		var c CustomerSummary
		var phone sql.NullString
		var createdAt time.Time
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.IsActive, &createdAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			c.Phone = &p
		}
		c.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountCustomers returns the number of customer accounts for the admin
// dashboard.
func (r *UserRepo) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role='customer'").Scan(&n)
	return n, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotificationNotFound is returned when a notification lookup fails.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepo persists lifecycle notifications.  Rows are created by
// the dispatcher, mutated only to flip the read flag and never deleted.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given
// database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// NotificationRecord mirrors the schema of the notifications table.
type NotificationRecord struct {
	ID           uint64  `json:"id"`
	RecipientID  uint64  `json:"recipient"`
	Title        string  `json:"title"`
	Message      string  `json:"message"`
	Type         string  `json:"type"`
	IsRead       bool    `json:"read"`
	RelatedModel *string `json:"relatedModel,omitempty"`
	RelatedID    *uint64 `json:"relatedId,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// CreateBatch inserts one notification row per record in a single
// multi-VALUES statement.  Lifecycle events that address several
// recipients (the booking owner plus every admin) fan out here instead of
// issuing one INSERT per recipient.  Passing an empty slice is a no-op.
func (r *NotificationRepo) CreateBatch(ctx context.Context, records []NotificationRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `INSERT INTO notifications (recipient_id, title, message, type, related_model, related_id) VALUES `
	args := make([]interface{}, 0, len(records)*6)
	for i, n := range records {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		var relModel sql.NullString
		if n.RelatedModel != nil {
			relModel = sql.NullString{String: *n.RelatedModel, Valid: true}
		}
		var relID sql.NullInt64
		if n.RelatedID != nil {
			relID = sql.NullInt64{Int64: int64(*n.RelatedID), Valid: true}
		}
		args = append(args, n.RecipientID, n.Title, n.Message, n.Type, relModel, relID)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByRecipient returns all notifications addressed to the user,
// newest first.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uint64) ([]NotificationRecord, error) {
	const q = `SELECT id, recipient_id, title, message, type, is_read, related_model, related_id, created_at
	           FROM notifications WHERE recipient_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]NotificationRecord, 0)
	for rows.Next() {
		var n NotificationRecord
		var relModel sql.NullString
		var relID sql.NullInt64
		var createdAt time.Time
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Type,
			&n.IsRead, &relModel, &relID, &createdAt); err != nil {
			return nil, err
		}
		if relModel.Valid {
			m := relModel.String
			n.RelatedModel = &m
		}
		if relID.Valid {
			id := uint64(relID.Int64)
			n.RelatedID = &id
		}
		n.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		records = append(records, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkRead flips the read flag on a single notification.  It returns
// ErrNotificationNotFound when the notification does not exist and
// ErrForbidden when it belongs to a different recipient.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID uint64) error {
	const check = `SELECT recipient_id FROM notifications WHERE id = ?`
	var actual uint64
	if err := r.db.QueryRowContext(ctx, check, id).Scan(&actual); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotificationNotFound
		}
		return err
	}
	if actual != recipientID {
		return ErrForbidden
	}
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	return err
}

// MarkAllRead flips the read flag on every unread notification addressed
// to the user and returns how many rows changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE recipient_id = ? AND is_read = 0`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

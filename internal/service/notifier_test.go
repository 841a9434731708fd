package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wedding-hall-booking/internal/model"
	"github.com/iliyamo/wedding-hall-booking/internal/queue"
	"github.com/iliyamo/wedding-hall-booking/internal/repository"
)

func testBooking() *repository.BookingRecord {
	start, _ := time.Parse("2006-01-02", "2025-06-01")
	return &repository.BookingRecord{
		ID:               12,
		UserID:           3,
		HallID:           5,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 1),
		TotalAmountCents: 5000,
		Status:           model.BookingStatusPending,
	}
}

func TestNotificationFor(t *testing.T) {
	rec := notificationFor(3, "Booking Created", "hello", model.NotificationTypeBooking, model.RelatedBooking, 12)
	assert.Equal(t, uint64(3), rec.RecipientID)
	assert.Equal(t, "Booking Created", rec.Title)
	assert.Equal(t, "hello", rec.Message)
	assert.Equal(t, model.NotificationTypeBooking, rec.Type)
	require.NotNil(t, rec.RelatedModel)
	assert.Equal(t, model.RelatedBooking, *rec.RelatedModel)
	require.NotNil(t, rec.RelatedID)
	assert.Equal(t, uint64(12), *rec.RelatedID)
	assert.False(t, rec.IsRead)
}

func TestLifecycleEvent(t *testing.T) {
	b := testBooking()
	ev := lifecycleEvent(queue.EventBookingCreated, b, "Rose Garden")

	assert.Equal(t, queue.EventBookingCreated, ev.Event)
	assert.Equal(t, uint64(12), ev.BookingID)
	assert.Equal(t, uint64(3), ev.UserID)
	assert.Equal(t, uint64(5), ev.HallID)
	assert.Equal(t, "Rose Garden", ev.HallName)
	assert.Equal(t, "2025-06-01", ev.StartDate)
	assert.Equal(t, "2025-06-02", ev.EndDate)
	assert.Equal(t, model.BookingStatusPending, ev.Status)
	assert.Equal(t, uint64(5000), ev.TotalAmountCents)
	assert.Nil(t, ev.PaymentID)

	occurred, err := time.Parse(time.RFC3339, ev.OccurredAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), occurred, 5*time.Second)
}

func TestNewNotifierPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewNotifier(nil, nil) })
	assert.Panics(t, func() { NewNotifier(&repository.UserRepo{}, nil) })
}

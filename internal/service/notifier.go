package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/wedding-hall-booking/internal/model"
	q "github.com/iliyamo/wedding-hall-booking/internal/queue"
	"github.com/iliyamo/wedding-hall-booking/internal/repository"
)

// Notifier fans lifecycle events out as persisted notifications and queue
// events.  One logical event is resolved to N recipient rows (the booking
// owner plus every admin) and written in a single batch insert.  All
// methods are best-effort: they run after the triggering transaction has
// committed, log failures and never block the primary operation.
type Notifier struct {
	Users         *repository.UserRepo
	Notifications *repository.NotificationRepo
}

// NewNotifier constructs a Notifier.  Both repositories must be non-nil.
func NewNotifier(users *repository.UserRepo, notifications *repository.NotificationRepo) *Notifier {
	if users == nil || notifications == nil {
		panic("nil repository passed to NewNotifier")
	}
	return &Notifier{Users: users, Notifications: notifications}
}

// ownerAndAdminRecords builds one notification row for the booking owner
// and one per admin.  When the owner is an admin, only the owner-facing
// row is produced for them.
func (n *Notifier) ownerAndAdminRecords(ctx context.Context, ownerID uint64,
	ownerTitle, ownerMsg, adminTitle, adminMsg, typ, relatedModel string, relatedID uint64) []repository.NotificationRecord {

	records := []repository.NotificationRecord{
		notificationFor(ownerID, ownerTitle, ownerMsg, typ, relatedModel, relatedID),
	}
	adminIDs, err := n.Users.ListAdminIDs(ctx)
	if err != nil {
		log.Printf("notifier: list admins failed: %v", err)
		return records
	}
	for _, id := range adminIDs {
		if id == ownerID {
			continue
		}
		records = append(records, notificationFor(id, adminTitle, adminMsg, typ, relatedModel, relatedID))
	}
	return records
}

func notificationFor(recipient uint64, title, msg, typ, relatedModel string, relatedID uint64) repository.NotificationRecord {
	rm := relatedModel
	rid := relatedID
	return repository.NotificationRecord{
		RecipientID:  recipient,
		Title:        title,
		Message:      msg,
		Type:         typ,
		RelatedModel: &rm,
		RelatedID:    &rid,
	}
}

func (n *Notifier) dispatch(ctx context.Context, records []repository.NotificationRecord, event q.BookingLifecycleEvent) {
	if err := n.Notifications.CreateBatch(ctx, records); err != nil {
		log.Printf("notifier: create notifications failed: %v", err)
	}
	_ = PublishBookingEvent(ctx, event) // publisher logs its own failures
}

func lifecycleEvent(name string, b *repository.BookingRecord, hallName string) q.BookingLifecycleEvent {
	return q.BookingLifecycleEvent{
		Event:            name,
		BookingID:        b.ID,
		UserID:           b.UserID,
		HallID:           b.HallID,
		HallName:         hallName,
		StartDate:        b.StartDate.Format("2006-01-02"),
		EndDate:          b.EndDate.Format("2006-01-02"),
		Status:           b.Status,
		TotalAmountCents: b.TotalAmountCents,
		OccurredAt:       time.Now().UTC().Format(time.RFC3339),
	}
}

// BookingCreated notifies the owner and all admins that a booking was
// created and is awaiting payment.
func (n *Notifier) BookingCreated(ctx context.Context, b *repository.BookingRecord, hallName string) {
	records := n.ownerAndAdminRecords(ctx, b.UserID,
		"Booking Created",
		fmt.Sprintf("Your booking for %s has been created successfully. Please complete the payment to confirm your booking.", hallName),
		"New Booking",
		fmt.Sprintf("A new booking has been created for %s.", hallName),
		model.NotificationTypeBooking, model.RelatedBooking, b.ID)
	n.dispatch(ctx, records, lifecycleEvent(q.EventBookingCreated, b, hallName))
}

// BookingStatusChanged notifies the booking owner of an admin status
// update.
func (n *Notifier) BookingStatusChanged(ctx context.Context, b *repository.BookingRecord, hallName string) {
	records := []repository.NotificationRecord{
		notificationFor(b.UserID,
			"Booking Status Updated",
			fmt.Sprintf("Your booking for %s has been %s.", hallName, b.Status),
			model.NotificationTypeBooking, model.RelatedBooking, b.ID),
	}
	n.dispatch(ctx, records, lifecycleEvent(q.EventBookingStatus, b, hallName))
}

// BookingCancelled notifies the owner and all admins of a cancellation.
func (n *Notifier) BookingCancelled(ctx context.Context, b *repository.BookingRecord, hallName string) {
	records := n.ownerAndAdminRecords(ctx, b.UserID,
		"Booking Cancelled",
		"Your booking has been cancelled successfully.",
		"Booking Cancelled",
		"A booking has been cancelled.",
		model.NotificationTypeBooking, model.RelatedBooking, b.ID)
	n.dispatch(ctx, records, lifecycleEvent(q.EventBookingCancelled, b, hallName))
}

// PaymentCompleted notifies the owner and all admins that a booking has
// been paid and confirmed.
func (n *Notifier) PaymentCompleted(ctx context.Context, b *repository.BookingRecord, p *repository.PaymentRecord, hallName string) {
	records := n.ownerAndAdminRecords(ctx, b.UserID,
		"Payment Successful",
		fmt.Sprintf("Your payment for booking at %s has been processed successfully.", hallName),
		"New Payment",
		fmt.Sprintf("A payment has been received for booking at %s.", hallName),
		model.NotificationTypePayment, model.RelatedPayment, p.ID)
	ev := lifecycleEvent(q.EventPaymentCompleted, b, hallName)
	pid := p.ID
	ev.PaymentID = &pid
	n.dispatch(ctx, records, ev)
}

package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents an appointment booking in the system.
// Bookings are never physically deleted: a cancellation is a status
// transition to cancelled, so history is preserved.
//
// Invariant: the tuple (StaffID, BookingDate, StartTime) is unique among
// bookings not in cancelled status. The database enforces it with a partial
// unique index; the application treats its violation as a slot conflict.
type Booking struct {
	ID              int64
	CustomerID      int64
	ServiceID       int64
	StaffID         int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history and notifications
	ServiceName   string
	ServicePrice  float64
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the booking blocks its (staff, date, time)
// slot. Everything except cancelled occupies: completed and no_show bookings
// are in the past, pending and confirmed are live.
func (b *Booking) OccupiesSlot() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsTerminal returns true if no further transition is permitted
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// StartsAt combines the booking date and start time into a single moment.
func (b *Booking) StartsAt() (time.Time, error) {
	return b.StartTime.At(b.BookingDate)
}

// IsInPast reports whether the appointment moment is strictly before now.
func (b *Booking) IsInPast(now time.Time) bool {
	startsAt, err := b.StartsAt()
	if err != nil {
		return false
	}
	return startsAt.Before(now)
}

package domain

import "time"

// NotificationRecord is one entry of the append-only notification log.
// A record per (booking, kind) pair enforces at-most-once reminder delivery;
// records are never mutated after creation.
type NotificationRecord struct {
	ID        int64
	BookingID int64
	Kind      string
	Recipient string
	SentAt    time.Time
}

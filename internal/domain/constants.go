package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default schedule values, used when the config omits them
const (
	DefaultOpenTime    = "09:00"
	DefaultCloseTime   = "17:00"
	DefaultStepMinutes = 30
)

// ReminderKindDayBefore is the notification kind for day-before reminders.
// It is part of the idempotency key of the notification log.
const ReminderKindDayBefore = "day_before"

// UpcomingStatuses are the statuses reminders are dispatched for.
var UpcomingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// OccupyingStatuses are the statuses that block a slot. Used by slot
// availability math.
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

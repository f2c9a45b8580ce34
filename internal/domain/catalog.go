package domain

import "time"

// Service represents a bookable service from the reference catalog.
// The catalog is owned by administrative CRUD outside this engine; the
// engine only reads it for duration math and capability checks.
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
	Category        string
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Staff represents a staff member. The set of services a staff member can
// perform (capability set) lives in the staff_services join table and is
// queried through the catalog repository.
type Staff struct {
	ID       int64
	Name     string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

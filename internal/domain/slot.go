package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// TimeSlot is a derived value: a candidate appointment start time on a given
// date, tagged available or not. Slots are never stored; they are recomputed
// from business hours, service duration and current bookings on every query.
//
// Slots are staff-anonymous: Available means at least one capable staff
// member is free at that start time. Staff assignment happens at booking
// creation, not at slot query.
type TimeSlot struct {
	StartTime types.TimeString
	Available bool
}

// Schedule describes the business hours grid slots are generated on.
type Schedule struct {
	OpenTime    types.TimeString
	CloseTime   types.TimeString
	StepMinutes int
}

// Contains reports whether an appointment of the given duration starting at
// start fits entirely within business hours.
func (s Schedule) Contains(start types.TimeString, durationMinutes int) bool {
	if start.IsBefore(s.OpenTime) {
		return false
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	return !end.IsAfter(s.CloseTime)
}

// OnGrid reports whether start lies on the slot grid (offset from opening
// time is a multiple of the step).
func (s Schedule) OnGrid(start types.TimeString) bool {
	startMin, err := start.MinutesSinceMidnight()
	if err != nil {
		return false
	}
	openMin, err := s.OpenTime.MinutesSinceMidnight()
	if err != nil {
		return false
	}
	offset := startMin - openMin
	return offset >= 0 && s.StepMinutes > 0 && offset%s.StepMinutes == 0
}

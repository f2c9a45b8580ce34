package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format, expected HH:MM", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(date time.Time, now time.Time) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}

// validateTimeSlot проверяет, что время начала выровнено по сетке
// расписания, визит укладывается в рабочие часы и момент начала
// еще не прошел
func validateTimeSlot(
	schedule domain.Schedule,
	date time.Time,
	startTime types.TimeString,
	durationMinutes int,
	now time.Time,
) error {
	if !schedule.OnGrid(startTime) {
		return fmt.Errorf("%w: start time %s is not aligned to the schedule grid", ErrInvalidTimeSlot, startTime)
	}

	if !schedule.Contains(startTime, durationMinutes) {
		return fmt.Errorf("%w: appointment does not fit into working hours", ErrInvalidTimeSlot)
	}

	startsAt, err := startTime.At(date)
	if err != nil {
		return fmt.Errorf("%w: invalid start time %s", ErrInvalidTimeSlot, startTime)
	}
	if !startsAt.After(now) {
		return fmt.Errorf("%w: start time %s has already passed", ErrInvalidTimeSlot, startTime)
	}

	return nil
}

package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// generateTimeGrid генерирует сетку кандидатов времени начала на день.
// Слоты идут от открытия с фиксированным шагом; слот попадает в сетку,
// только если визит длительностью durationMinutes целиком укладывается
// в рабочие часы. Для сегодняшней даты уже прошедшие слоты отбрасываются.
func generateTimeGrid(
	schedule domain.Schedule,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
) ([]types.TimeString, error) {
	grid := make([]types.TimeString, 0)
	current := schedule.OpenTime

	for current.IsBefore(schedule.CloseTime) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(schedule.CloseTime) {
			break
		}

		grid = append(grid, current)

		current, err = current.AddMinutes(schedule.StepMinutes)
		if err != nil {
			return nil, err
		}
	}

	// На не-сегодняшнюю дату возвращаем всю сетку
	if !isSameDay(requestDate, now) {
		return grid, nil
	}

	// Сегодня: отбрасываем слоты, время начала которых уже прошло
	currentTime := types.NewTimeString(now)
	upcoming := make([]types.TimeString, 0, len(grid))
	for _, slot := range grid {
		if !slot.IsBefore(currentTime) {
			upcoming = append(upcoming, slot)
		}
	}

	return upcoming, nil
}

// computeAvailability вычисляет доступность каждого слота сетки.
// Слот доступен, если хотя бы один из staffList свободен на интервале
// [start, start+duration). Слоты анонимны по сотруднику - клиент
// бронирует время, сотрудник назначается при создании бронирования.
func computeAvailability(
	grid []types.TimeString,
	durationMinutes int,
	staffList []*domain.Staff,
	bookings []*domain.Booking,
) []domain.TimeSlot {
	byStaff := groupByStaff(bookings)

	result := make([]domain.TimeSlot, len(grid))
	for i, start := range grid {
		available := false
		for _, staff := range staffList {
			if staffIsFree(byStaff[staff.ID], start, durationMinutes) {
				available = true
				break
			}
		}
		result[i] = domain.TimeSlot{
			StartTime: start,
			Available: available,
		}
	}

	return result
}

// staffIsFree проверяет, что ни одно из бронирований сотрудника не
// пересекается с интервалом [slotStart, slotStart+duration).
//
// Пересечение считается по строгим неравенствам: бронирование,
// заканчивающееся ровно в момент начала слота (и наоборот), не мешает.
func staffIsFree(bookings []*domain.Booking, slotStart types.TimeString, durationMinutes int) bool {
	slotEnd, err := slotStart.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	for _, booking := range bookings {
		if !booking.OccupiesSlot() {
			continue
		}

		bookingStart := booking.StartTime
		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			// Не можем вычислить конец бронирования - пропускаем
			continue
		}

		if bookingStart.IsBefore(slotEnd) && bookingEnd.IsAfter(slotStart) {
			return false
		}
	}

	return true
}

// groupByStaff группирует бронирования по сотруднику
func groupByStaff(bookings []*domain.Booking) map[int64][]*domain.Booking {
	byStaff := make(map[int64][]*domain.Booking, len(bookings))
	for _, b := range bookings {
		byStaff[b.StaffID] = append(byStaff[b.StaffID], b)
	}
	return byStaff
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

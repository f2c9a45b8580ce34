package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: booking date is in the past")

	// ErrInvalidTimeSlot возвращается, когда время начала не попадает
	// в рабочие часы, не выровнено по сетке или уже прошло
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrStaffNotCapable возвращается, когда сотрудник не оказывает услугу
	ErrStaffNotCapable = errors.New("create_booking: staff does not provide this service")

	// ErrSlotNotAvailable возвращается, когда слот занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInternal внутренняя ошибка usecase
	ErrInternal = errors.New("create_booking: internal error")
)

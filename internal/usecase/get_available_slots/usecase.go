package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase usecase получения доступных слотов на дату
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	schedule     domain.Schedule
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый usecase получения слотов
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	schedule domain.Schedule,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		schedule:     schedule,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute вычисляет сетку слотов на дату.
//
// Для запроса с услугой длительность слота равна длительности услуги,
// кандидаты - активные сотрудники, умеющие ее оказывать. Без услуги
// строится сетка по шагу расписания со всеми активными сотрудниками.
// Неизвестная или неактивная услуга дает пустой список, а не ошибку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("[GetAvailableSlots] Invalid request: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("[GetAvailableSlots] Date in the past: date=%s", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	durationMinutes := uc.schedule.StepMinutes
	var staffList []*domain.Staff

	if req.ServiceID != nil {
		service, err := uc.catalogRepo.GetServiceByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				uc.logger.Info("[GetAvailableSlots] Service not found: serviceID=%d", *req.ServiceID)
				return uc.emptyResponse(req), nil
			}
			uc.logger.Error("[GetAvailableSlots] Failed to get service: serviceID=%d, error=%v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.IsActive {
			uc.logger.Info("[GetAvailableSlots] Service is inactive: serviceID=%d", service.ID)
			return uc.emptyResponse(req), nil
		}

		durationMinutes = service.DurationMinutes

		staffList, err = uc.catalogRepo.ListActiveStaffForService(ctx, service.ID)
		if err != nil {
			uc.logger.Error("[GetAvailableSlots] Failed to list staff for service: serviceID=%d, error=%v", service.ID, err)
			return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
		}
	} else {
		var err error
		staffList, err = uc.catalogRepo.ListActiveStaff(ctx)
		if err != nil {
			uc.logger.Error("[GetAvailableSlots] Failed to list active staff: error=%v", err)
			return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
		}
	}

	grid, err := generateTimeGrid(uc.schedule, durationMinutes, req.Date, now)
	if err != nil {
		uc.logger.Error("[GetAvailableSlots] Failed to generate time grid: error=%v", err)
		return nil, fmt.Errorf("%w: failed to generate time grid: %v", ErrInternal, err)
	}

	// Без единого подходящего сотрудника все слоты недоступны,
	// бронирования можно не загружать
	if len(staffList) == 0 {
		uc.logger.Info("[GetAvailableSlots] No active staff available: date=%s", req.Date.Format(domain.DateFormat))
		slots := make([]domain.TimeSlot, len(grid))
		for i, start := range grid {
			slots[i] = domain.TimeSlot{StartTime: start, Available: false}
		}
		return &Response{Date: req.Date, ServiceID: req.ServiceID, Slots: slots}, nil
	}

	bookings, err := uc.bookingRepo.ListByDate(ctx, req.Date, domain.OccupyingStatuses)
	if err != nil {
		uc.logger.Error("[GetAvailableSlots] Failed to list bookings: date=%s, error=%v", req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	slots := computeAvailability(grid, durationMinutes, staffList, bookings)

	uc.logger.Info("[GetAvailableSlots] Computed slots: date=%s, total=%d", req.Date.Format(domain.DateFormat), len(slots))

	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     slots,
	}, nil
}

// emptyResponse возвращает ответ без слотов
func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     []domain.TimeSlot{},
	}
}

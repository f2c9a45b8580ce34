package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase usecase создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	schedule     domain.Schedule
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый usecase создания бронирования
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	schedule domain.Schedule,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет usecase создания бронирования.
//
// Гонки за слот разрешает частичный уникальный индекс в БД: вставка
// в занятый слот возвращает ErrSlotTaken, без сериализуемых транзакций.
// При автоподборе сотрудника конфликт приводит к попытке со следующим
// кандидатом, при явно выбранном сотруднике - к ошибке ErrSlotNotAvailable.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 4. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 5. Валидация времени с учетом длительности услуги
	if err := validateTimeSlot(uc.schedule, req.Date, req.StartTime, service.DurationMinutes, now); err != nil {
		uc.logger.Warn("CreateBooking: time slot validation failed: %v", err)
		return nil, err
	}

	// 6. Определяем кандидатов на выполнение услуги
	candidates, err := uc.resolveCandidates(ctx, req, service)
	if err != nil {
		return nil, err
	}

	// 7. Отбрасываем кандидатов, занятых на этом интервале.
	// Проверка по текущему снимку бронирований; финальную защиту от гонок
	// дает уникальный индекс при вставке.
	freeCandidates, err := uc.filterFreeCandidates(ctx, req, service.DurationMinutes, candidates)
	if err != nil {
		return nil, err
	}

	if len(freeCandidates) == 0 {
		uc.logger.Warn("CreateBooking: no free staff for date=%s time=%s",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrSlotNotAvailable
	}

	// 8. Пытаемся создать бронирование, перебирая кандидатов
	created, err := uc.createWithCandidates(ctx, req, service, freeCandidates)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, staff=%d", created.ID, created.StaffID)

	return toResponse(created), nil
}

// resolveCandidates возвращает список сотрудников, которым можно
// назначить бронирование. При явно выбранном сотруднике список состоит
// из него одного после проверки активности и умения оказывать услугу.
func (uc *UseCase) resolveCandidates(ctx context.Context, req *Request, service *domain.Service) ([]*domain.Staff, error) {
	if req.StaffID != nil {
		staff, err := uc.catalogRepo.GetStaffByID(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateBooking: staff id=%d not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		if !staff.IsActive {
			uc.logger.Warn("CreateBooking: staff id=%d is inactive", staff.ID)
			return nil, ErrStaffNotFound
		}

		capable, err := uc.catalogRepo.IsStaffCapable(ctx, staff.ID, service.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check staff capability: %v", err)
			return nil, fmt.Errorf("%w: failed to check staff capability: %v", ErrInternal, err)
		}
		if !capable {
			uc.logger.Warn("CreateBooking: staff id=%d does not provide service id=%d", staff.ID, service.ID)
			return nil, ErrStaffNotCapable
		}

		return []*domain.Staff{staff}, nil
	}

	candidates, err := uc.catalogRepo.ListActiveStaffForService(ctx, service.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list staff for service id=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	return candidates, nil
}

// filterFreeCandidates отбрасывает сотрудников с пересекающимися
// бронированиями на запрошенном интервале
func (uc *UseCase) filterFreeCandidates(
	ctx context.Context,
	req *Request,
	durationMinutes int,
	candidates []*domain.Staff,
) ([]*domain.Staff, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	bookings, err := uc.bookingRepo.ListByDate(ctx, req.Date, domain.OccupyingStatuses)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list bookings for date=%s: %v",
			req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	slotEnd, err := req.StartTime.AddMinutes(durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute slot end: %v", ErrInternal, err)
	}

	busy := make(map[int64]bool)
	for _, b := range bookings {
		if busy[b.StaffID] {
			continue
		}

		bookingEnd, err := b.StartTime.AddMinutes(b.DurationMinutes)
		if err != nil {
			continue
		}

		// Пересечение по строгим неравенствам: стыкующиеся интервалы не мешают
		if b.StartTime.IsBefore(slotEnd) && bookingEnd.IsAfter(req.StartTime) {
			busy[b.StaffID] = true
		}
	}

	free := make([]*domain.Staff, 0, len(candidates))
	for _, staff := range candidates {
		if !busy[staff.ID] {
			free = append(free, staff)
		}
	}

	return free, nil
}

// createWithCandidates пытается вставить бронирование для каждого
// кандидата по очереди. Конфликт уникального индекса означает, что
// кандидата успели занять параллельным запросом.
func (uc *UseCase) createWithCandidates(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	candidates []*domain.Staff,
) (*domain.Booking, error) {
	explicitStaff := req.StaffID != nil

	for _, staff := range candidates {
		booking := &domain.Booking{
			CustomerID:      req.CustomerID,
			ServiceID:       service.ID,
			StaffID:         staff.ID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			// Денормализация данных услуги
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			// Денормализация контактов клиента
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(ctx, booking)
		if err == nil {
			return created, nil
		}

		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			if explicitStaff {
				uc.logger.Warn("CreateBooking: slot taken for staff id=%d", staff.ID)
				return nil, ErrSlotNotAvailable
			}
			uc.logger.Info("CreateBooking: staff id=%d taken concurrently, trying next candidate", staff.ID)
			continue
		}

		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Warn("CreateBooking: all candidates taken concurrently for date=%s time=%s",
		req.Date.Format(domain.DateFormat), req.StartTime)
	return nil, ErrSlotNotAvailable
}

// toResponse конвертирует доменную модель в ответ usecase
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ServiceID:       b.ServiceID,
		StaffID:         b.StaffID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

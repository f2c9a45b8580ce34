package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	notifyClient NotifyServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifyClient NotifyServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifyClient: notifyClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент может видеть только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64, actorRole domain.Role) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d", id, actorID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != actorID && actorRole != domain.RoleAdmin {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований клиента
// Опционально фильтрует по статусу. Клиент видит только свою историю,
// администратор - историю любого клиента
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for customer=%d, actor=%d, status=%v",
		req.CustomerID, req.ActorID, req.Status)

	if req.CustomerID != req.ActorID && req.ActorRole != domain.RoleAdmin {
		s.logger.Warn("GetUserBookings: access denied for actor=%d to customer=%d bookings", req.ActorID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только своё будущее бронирование, администратор -
// любое будущее. Повторная отмена и отмена прошедшего визита запрещены
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by actor=%d", bookingID, req.ActorID)

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if booking.CustomerID != req.ActorID && req.ActorRole != domain.RoleAdmin {
		s.logger.Warn("Cancel: access denied for actor=%d to booking id=%d", req.ActorID, bookingID)
		return ErrAccessDenied
	}

	if booking.IsCancelled() {
		s.logger.Warn("Cancel: booking id=%d is already cancelled", bookingID)
		return ErrAlreadyCancelled
	}

	if !domain.CanTransition(booking.Status, domain.StatusCancelled, req.ActorRole) {
		s.logger.Warn("Cancel: transition %s -> cancelled not allowed for role=%s", booking.Status, req.ActorRole)
		return ErrInvalidTransition
	}

	if booking.IsInPast(s.timeProvider.Now()) {
		s.logger.Warn("Cancel: booking id=%d is in the past", bookingID)
		return ErrPastBooking
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	// Уведомление об отмене отправляется best-effort, его сбой не
	// откатывает отмену
	s.notify(ctx, booking, notifyservice.TemplateBookingCancelled)

	return nil
}

// UpdateStatus переводит бронирование в новый статус.
// Доступно только администраторам. Допустимость перехода определяет
// таблица переходов, завершающие статусы дополнительно требуют, чтобы
// время визита уже наступило
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by actor=%d",
		bookingID, req.Status, req.ActorID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, ErrInvalidStatus
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(booking.Status, newStatus, req.ActorRole) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for role=%s",
			booking.Status, newStatus, req.ActorRole)
		return nil, ErrInvalidTransition
	}

	// completed и no_show фиксируют исход визита, поэтому требуют,
	// чтобы его время уже прошло
	if newStatus == domain.StatusCompleted || newStatus == domain.StatusNoShow {
		if !booking.IsInPast(s.timeProvider.Now()) {
			s.logger.Warn("UpdateStatus: booking id=%d has not started yet, cannot set status=%s", bookingID, newStatus)
			return nil, ErrNotElapsed
		}
	}

	if newStatus == domain.StatusCancelled {
		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}
		err = s.bookingRepo.Cancel(ctx, bookingID, reason)
	} else {
		err = s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus)
	}

	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)

	switch newStatus {
	case domain.StatusConfirmed:
		s.notify(ctx, booking, notifyservice.TemplateBookingConfirmed)
	case domain.StatusCancelled:
		s.notify(ctx, booking, notifyservice.TemplateBookingCancelled)
	}

	updated, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(updated), nil
}

// Вспомогательные методы

// getBooking получает бронирование с маппингом ошибок репозитория
func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// notify отправляет уведомление клиенту, ошибки только логируются
func (s *Service) notify(ctx context.Context, booking *domain.Booking, template string) {
	sendReq := &notifyservice.SendRequest{
		To:       booking.CustomerEmail,
		Template: template,
		Data: map[string]interface{}{
			"bookingId":    booking.ID,
			"serviceName":  booking.ServiceName,
			"customerName": booking.CustomerName,
			"date":         booking.BookingDate.Format(domain.DateFormat),
			"startTime":    booking.StartTime.String(),
		},
	}

	if err := s.notifyClient.Send(ctx, sendReq); err != nil {
		s.logger.Error("notify: failed to send %s notification for booking id=%d: %v", template, booking.ID, err)
	}
}

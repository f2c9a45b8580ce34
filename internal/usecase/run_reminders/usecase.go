package run_reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	notifLogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/notiflog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// UseCase батч рассылки напоминаний о завтрашних визитах
type UseCase struct {
	bookingRepo  BookingRepository
	notifLogRepo NotificationLogRepository
	notifyClient NotifyServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый usecase рассылки напоминаний
func NewUseCase(
	bookingRepo BookingRepository,
	notifLogRepo NotificationLogRepository,
	notifyClient NotifyServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifLogRepo: notifLogRepo,
		notifyClient: notifyClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отправляет напоминания по завтрашним pending/confirmed
// бронированиям.
//
// Идемпотентность обеспечивает журнал notification_log: прогон можно
// запускать повторно, уже обработанные бронирования будут пропущены.
// Ошибка отправки одного напоминания не прерывает батч.
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()
	targetDate := now.AddDate(0, 0, 1)

	uc.logger.Info("RunReminders: starting batch for date=%s", targetDate.Format(domain.DateFormat))

	bookings, err := uc.bookingRepo.ListByDate(ctx, targetDate, domain.UpcomingStatuses)
	if err != nil {
		uc.logger.Error("RunReminders: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	result := &Result{
		Date:  targetDate,
		Total: len(bookings),
	}

	for _, booking := range bookings {
		sent, err := uc.remind(ctx, booking)
		if err != nil {
			result.Failed++
			continue
		}
		if sent {
			result.Sent++
		} else {
			result.Skipped++
		}
	}

	uc.logger.Info("RunReminders: batch finished: total=%d, sent=%d, skipped=%d, failed=%d",
		result.Total, result.Sent, result.Skipped, result.Failed)

	return result, nil
}

// remind отправляет одно напоминание. Возвращает (false, nil), если
// напоминание по бронированию уже отправлялось ранее.
func (uc *UseCase) remind(ctx context.Context, booking *domain.Booking) (bool, error) {
	exists, err := uc.notifLogRepo.Exists(ctx, booking.ID, domain.ReminderKindDayBefore)
	if err != nil {
		uc.logger.Error("RunReminders: failed to check notification log for booking id=%d: %v", booking.ID, err)
		return false, err
	}
	if exists {
		return false, nil
	}

	sendReq := &notifyservice.SendRequest{
		To:       booking.CustomerEmail,
		Template: notifyservice.TemplateBookingReminder,
		Data: map[string]interface{}{
			"bookingId":    booking.ID,
			"serviceName":  booking.ServiceName,
			"customerName": booking.CustomerName,
			"date":         booking.BookingDate.Format(domain.DateFormat),
			"startTime":    booking.StartTime.String(),
		},
	}

	if err := uc.notifyClient.Send(ctx, sendReq); err != nil {
		uc.logger.Error("RunReminders: failed to send reminder for booking id=%d: %v", booking.ID, err)
		return false, err
	}

	record := &domain.NotificationRecord{
		BookingID: booking.ID,
		Kind:      domain.ReminderKindDayBefore,
		Recipient: booking.CustomerEmail,
	}

	if _, err := uc.notifLogRepo.Create(ctx, record); err != nil {
		// Параллельный прогон успел записать раньше - напоминание уже ушло
		if errors.Is(err, notifLogRepo.ErrDuplicateRecord) {
			uc.logger.Warn("RunReminders: duplicate log record for booking id=%d, treating as sent", booking.ID)
			return false, nil
		}
		// Отправка прошла, но фиксация не удалась. Не считаем ошибкой
		// батча, при следующем прогоне возможна повторная отправка.
		uc.logger.Error("RunReminders: failed to record notification for booking id=%d: %v", booking.ID, err)
	}

	uc.logger.Info("RunReminders: reminder sent for booking id=%d, date=%s, time=%s",
		booking.ID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime)

	return true, nil
}

package run_reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListByDate получает бронирования на дату с фильтром по статусам
	ListByDate(ctx context.Context, date time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error)
}

// NotificationLogRepository интерфейс журнала отправленных уведомлений
type NotificationLogRepository interface {
	// Create фиксирует факт отправки; при повторе возвращает notiflog.ErrDuplicateRecord
	Create(ctx context.Context, record *domain.NotificationRecord) (*domain.NotificationRecord, error)

	// Exists проверяет, было ли уведомление этого вида уже отправлено
	Exists(ctx context.Context, bookingID int64, kind string) (bool, error)
}

// NotifyServiceClient интерфейс клиента сервиса уведомлений
type NotifyServiceClient interface {
	Send(ctx context.Context, req *notifyservice.SendRequest) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

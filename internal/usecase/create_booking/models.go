package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID    int64            // ID клиента (из токена)
	CustomerEmail string           // Email клиента (из токена)
	ServiceID     int64            // ID услуги
	StaffID       *int64           // Явно выбранный сотрудник (опционально)
	Date          time.Time        // Дата визита
	StartTime     types.TimeString // Время начала визита
	CustomerName  string           // Имя клиента для подтверждения
	CustomerPhone *string          // Телефон клиента
	Notes         *string          // Комментарий клиента
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            `json:"id"`
	CustomerID      int64            `json:"customerId"`
	ServiceID       int64            `json:"serviceId"`
	StaffID         int64            `json:"staffId"`
	BookingDate     time.Time        `json:"bookingDate"`
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`
	ServiceName     string           `json:"serviceName"`
	ServicePrice    float64          `json:"servicePrice"`
	CustomerName    string           `json:"customerName"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerPhone   *string          `json:"customerPhone,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

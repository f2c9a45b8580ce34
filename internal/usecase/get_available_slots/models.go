package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date      time.Time // Дата, на которую запрашиваются слоты (без времени)
	ServiceID *int64    // Фильтр по услуге (опционально; nil - сетка по шагу расписания)
}

// Response модель ответа со списком слотов
type Response struct {
	Date      time.Time         // Дата, на которую запрашивались слоты
	ServiceID *int64            // Фильтр по услуге (если был)
	Slots     []domain.TimeSlot // Сетка слотов в порядке возрастания времени
}

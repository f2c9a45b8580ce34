package update_booking_status

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/authservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"` // Причина (для перевода в cancelled)
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(identity *authservice.Identity) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		ActorID:   identity.ID,
		ActorRole: domain.Role(identity.Role),
		Status:    r.Status,
		Reason:    r.Reason,
	}
}

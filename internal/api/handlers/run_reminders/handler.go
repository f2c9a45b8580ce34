package run_reminders

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type Handler struct {
	useCase RunRemindersUseCase
	logger  Logger
}

func NewHandler(useCase RunRemindersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// RunRemindersResponse итог прогона батча
type RunRemindersResponse struct {
	Date    string `json:"date"` // "2026-09-15"
	Total   int    `json:"total"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Handle GET|POST /cron/reminders
// Защищен middleware CronSecret, ручной перезапуск безопасен благодаря
// идемпотентности батча
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /cron/reminders - Failed to run reminders batch: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := RunRemindersResponse{
		Date:    result.Date.Format(domain.DateFormat),
		Total:   result.Total,
		Sent:    result.Sent,
		Skipped: result.Skipped,
		Failed:  result.Failed,
	}

	h.logger.Info("POST /cron/reminders - Batch finished: total=%d, sent=%d, skipped=%d, failed=%d",
		result.Total, result.Sent, result.Skipped, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, response)
}

package run_reminders

import (
	"context"

	runReminders "github.com/m04kA/SMC-AppointmentService/internal/usecase/run_reminders"
)

type RunRemindersUseCase interface {
	Execute(ctx context.Context) (*runReminders.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package run_reminders

import "errors"

var (
	// ErrInternal возвращается, когда батч напоминаний не удалось выполнить
	ErrInternal = errors.New("run_reminders: internal error")
)

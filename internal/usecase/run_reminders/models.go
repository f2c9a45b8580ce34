package run_reminders

import "time"

// Result итог прогона батча напоминаний
type Result struct {
	Date    time.Time `json:"date"`    // Дата визитов, по которым шла рассылка
	Total   int       `json:"total"`   // Всего бронирований-кандидатов
	Sent    int       `json:"sent"`    // Отправлено в этом прогоне
	Skipped int       `json:"skipped"` // Пропущено (уже отправлялось ранее)
	Failed  int       `json:"failed"`  // Не удалось отправить
}

package notiflog

import "errors"

var (
	// ErrDuplicateRecord возвращается при попытке записать уведомление,
	// которое уже зафиксировано для пары (booking_id, kind).
	// Это штатный сигнал идемпотентности, а не ошибка БД.
	ErrDuplicateRecord = errors.New("notiflog.repository: notification already recorded")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("notiflog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("notiflog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("notiflog.repository: failed to scan row")
)

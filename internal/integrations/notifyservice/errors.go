package notifyservice

import "errors"

var (
	// ErrSendFailed возвращается, когда сервис не смог отправить уведомление.
	// Все вызывающие слои обязаны трактовать её как best-effort: логировать
	// и продолжать, не откатывая вызвавшую операцию.
	ErrSendFailed = errors.New("notifyservice client: failed to send notification")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")
)

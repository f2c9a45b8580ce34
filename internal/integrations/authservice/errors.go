package authservice

import "errors"

var (
	// ErrInvalidToken возвращается, когда токен отсутствует, просрочен
	// или не прошёл проверку
	ErrInvalidToken = errors.New("authservice client: invalid token")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("authservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("authservice client: invalid response")
)

package authservice

// Identity данные аутентифицированного пользователя из AuthService
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"` // customer | admin
}

// IsAdmin проверяет, что пользователь - администратор
func (i *Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// ErrorResponse модель ошибки от AuthService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/authservice"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "недействительный токен авторизации"
	msgAdminOnly    = "операция доступна только администратору"
)

type contextKey string

// identityKey ключ контекста с данными аутентифицированного пользователя
const identityKey contextKey = "identity"

// AuthClient интерфейс клиента AuthService
type AuthClient interface {
	VerifyToken(ctx context.Context, token string) (*authservice.Identity, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет Bearer токен через AuthService и кладет Identity в контекст.
// Запросы без валидного токена отклоняются с 401.
func Auth(client AuthClient, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logger.Warn("Auth middleware - Missing bearer token: path=%s", r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			identity, err := client.VerifyToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, authservice.ErrInvalidToken) {
					logger.Warn("Auth middleware - Invalid token: path=%s", r.URL.Path)
					handlers.RespondUnauthorized(w, msgInvalidToken)
					return
				}
				logger.Error("Auth middleware - Token verification failed: path=%s, error=%v", r.URL.Path, err)
				handlers.RespondInternalError(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только администраторов. Должен стоять после Auth.
func RequireAdmin(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				logger.Warn("RequireAdmin middleware - Missing identity: path=%s", r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			if !identity.IsAdmin() {
				logger.Warn("RequireAdmin middleware - Access denied: user_id=%d, path=%s", identity.ID, r.URL.Path)
				handlers.RespondForbidden(w, msgAdminOnly)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity достает Identity из контекста запроса
func GetIdentity(ctx context.Context) (*authservice.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*authservice.Identity)
	return identity, ok
}

// WithIdentity кладет Identity в контекст. Используется в тестах хендлеров.
func WithIdentity(ctx context.Context, identity *authservice.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// extractBearerToken достает токен из заголовка Authorization
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgInvalidCronSecret = "недействительный секрет планировщика"

// cronSecretHeader заголовок с секретом для ручного запуска батчей
const cronSecretHeader = "X-Cron-Secret"

// CronSecret защищает служебные эндпоинты планировщика общим секретом.
// Сравнение за постоянное время, чтобы секрет нельзя было подобрать
// по времени ответа.
func CronSecret(secret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(cronSecretHeader)

			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				logger.Warn("CronSecret middleware - Invalid secret: path=%s", r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidCronSecret)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

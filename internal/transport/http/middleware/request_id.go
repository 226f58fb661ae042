package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader - заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-Id"

// RequestID обеспечивает наличие X-Request-Id: берёт из запроса либо генерирует UUID.
// Id кладётся в заголовки запроса (его читают Logging и errors.WriteError) и ответа.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)

			next.ServeHTTP(w, r)
		})
	}
}

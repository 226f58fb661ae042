package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/pribylovaa/go-board/internal/errors"
	"github.com/pribylovaa/go-board/internal/service"
	"github.com/pribylovaa/go-board/pkg/log"
)

// UserIDHeader - заголовок с id автора запроса. Аутентификации нет: это только
// проброс идентичности до сервисного слоя.
const UserIDHeader = "X-User-Id"

type userIDKey struct{}

// UserID извлекает X-User-Id и кладёт его в контекст; логгер запроса получает user_id.
// Отсутствующий заголовок - анонимный запрос; нечисловой или <=0 - 400.
func UserID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				apierrors.WriteError(w, r, service.ErrInvalidArgument)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(log.With(ctx, "user_id", id)))
		})
	}
}

// UserIDFrom возвращает id автора из контекста либо nil для анонимного запроса.
func UserIDFrom(ctx context.Context) *int64 {
	id, ok := ctx.Value(userIDKey{}).(int64)
	if !ok {
		return nil
	}

	return &id
}

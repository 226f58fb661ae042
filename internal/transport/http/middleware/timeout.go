package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/go-board/internal/errors"
	"github.com/pribylovaa/go-board/pkg/log"
)

// Timeout ограничивает обработку запроса бюджетом timeouts.service.
//
// Существующий deadline не переопределяется, d <= 0 делает мидлвар no-op.
// Если бюджет исчерпан, а обработчик ничего не ответил, клиент получает
// 504 deadline_exceeded в общем формате ошибок.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			log.From(ctx).Warn("request_budget_exceeded",
				"path", r.URL.Path,
				"budget", d,
				"responded", sw.written(),
			)

			if !sw.written() {
				apierrors.WriteError(sw, r, context.DeadlineExceeded)
			}
		})
	}
}

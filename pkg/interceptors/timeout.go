// interceptors содержит серверные gRPC-интерсепторы board-сервиса:
// таймаут, перехват паник и логирование с request-scoped логгером.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout навешивает дедлайн d на контекст unary-вызова, если клиент его не передал.
//   - d <= 0 - контекст не меняется;
//   - существующий дедлайн не переопределяется.
//
// По истечении дедлайна gRPC-рантайм отдаёт клиенту codes.DeadlineExceeded.
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, cancel := withDeadline(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}

// StreamWithTimeout - то же для stream-вызовов (например, Health/Watch).
func StreamWithTimeout(d time.Duration) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, cancel := withDeadline(ss.Context(), d)
		defer cancel()

		return handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
	}
}

func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}

	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d)
}

// wrappedStream подменяет контекст у grpc.ServerStream.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context { return w.ctx }

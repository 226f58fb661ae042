package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-board/pkg/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RequestIDKey - ключ metadata с идентификатором запроса.
const RequestIDKey = "x-request-id"

// UnaryLoggingInterceptor логирует unary-вызовы.
//
// request_id берётся из metadata x-request-id либо генерируется (UUID).
// Логгер с request_id/method/peer кладётся в контекст (pkg/log), после вызова
// пишется одна запись msg="grpc" с code и dur. Payload не логируется.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		l := requestLogger(ctx, base, info.FullMethod)
		resp, err := handler(log.Into(ctx, l), req)

		l.Info("grpc",
			slog.String("code", status.Code(err).String()),
			slog.Duration("dur", time.Since(start)),
		)

		return resp, err
	}
}

// StreamLoggingInterceptor логирует stream-вызовы по завершении стрима.
func StreamLoggingInterceptor(base *slog.Logger) grpc.StreamServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()

		l := requestLogger(ss.Context(), base, info.FullMethod)
		err := handler(srv, &wrappedStream{ServerStream: ss, ctx: log.Into(ss.Context(), l)})

		l.Info("grpc_stream",
			slog.String("code", status.Code(err).String()),
			slog.Duration("dur", time.Since(start)),
		)

		return err
	}
}

func requestLogger(ctx context.Context, base *slog.Logger, method string) *slog.Logger {
	var rid string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
			rid = v[0]
		}
	}
	if rid == "" {
		rid = uuid.NewString()
	}

	peerStr := "-"
	if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
		peerStr = p.Addr.String()
	}

	return base.With(
		slog.String("request_id", rid),
		slog.String("method", method),
		slog.String("peer", peerStr),
	)
}

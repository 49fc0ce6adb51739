package tcp

import (
	"context"
	"errors"
	"time"

	"github.com/Jan540/account-manager/internal/server/wire"
)

// Handler executes one decoded command.
type Handler func(ctx context.Context, req wire.DirectoryRequest) (any, error)

// Interceptor wraps a Handler, in the manner of a unary server interceptor.
type Interceptor func(ctx context.Context, req wire.DirectoryRequest, next Handler) (any, error)

// Chain applies the interceptors so that the first one runs outermost.
func Chain(h Handler, interceptors ...Interceptor) Handler {
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, next := interceptors[i], h
		h = func(ctx context.Context, req wire.DirectoryRequest) (any, error) {
			return ic(ctx, req, next)
		}
	}
	return h
}

var errInternal = errors.New("internal error")

type ctxKey string

const remoteKey ctxKey = "remote"

func withRemote(ctx context.Context, remote string) context.Context {
	return context.WithValue(ctx, remoteKey, remote)
}

func remoteFrom(ctx context.Context) string {
	s, _ := ctx.Value(remoteKey).(string)
	return s
}

func (s *TCPServer) recoverInterceptor(ctx context.Context, req wire.DirectoryRequest, next Handler) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "directory handler panic", "command", req.Command.String(), "remote", remoteFrom(ctx), "panic", r)
			res, err = nil, errInternal
		}
	}()
	return next(ctx, req)
}

func (s *TCPServer) logInterceptor(ctx context.Context, req wire.DirectoryRequest, next Handler) (any, error) {
	start := time.Now()
	res, err := next(ctx, req)

	args := []any{
		"command", req.Command.String(),
		"remote", remoteFrom(ctx),
		"duration", time.Since(start),
	}
	if err != nil {
		s.logger.Warn(ctx, "directory request failed", append(args, "error", err)...)
	} else {
		s.logger.Info(ctx, "directory request", args...)
	}
	return res, err
}

// Package udp serves the auth protocol: one datagram in, one datagram out.
package udp

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/Jan540/account-manager/internal/logging"
	"github.com/Jan540/account-manager/internal/server/wire"
)

// Authenticator opens and closes sessions.
type Authenticator interface {
	Login(ctx context.Context, login, hash string) (string, error)
	Logout(ctx context.Context, login, token string) error
}

type UDPServer struct {
	address string
	auth    Authenticator
	logger  logging.Logger

	ready     chan struct{}
	readyOnce sync.Once
	mu        sync.Mutex
	addr      net.Addr
}

func NewUDPServer(a string, l logging.Logger, auth Authenticator) *UDPServer {
	return &UDPServer{
		address: a,
		auth:    auth,
		logger:  l.With("module", "udp_server"),
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the socket is bound.
func (s *UDPServer) Ready() <-chan struct{} { return s.ready }

// Addr is the bound address, nil before Ready.
func (s *UDPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run reads datagrams until ctx is cancelled. Each datagram is answered
// from its own goroutine.
func (s *UDPServer) Run(ctx context.Context) error {

	conn, err := net.ListenPacket("udp", s.address)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.addr = conn.LocalAddr()
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping UDP server...")
		conn.Close()
	}()

	s.logger.Info(ctx, "Starting UDP server", "address", conn.LocalAddr().String())

	// One spare byte tells an oversized datagram from one that fits exactly.
	buf := make([]byte, wire.MaxDatagramSize+1)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn(ctx, "read datagram", "error", err)
			continue
		}

		datagram := append([]byte(nil), buf[:n]...)
		go s.serve(ctx, conn, from, datagram)
	}
}

func (s *UDPServer) serve(ctx context.Context, conn net.PacketConn, from net.Addr, datagram []byte) {
	reply := s.handle(ctx, from, datagram)

	if _, err := conn.WriteTo([]byte(reply), from); err != nil {
		s.logger.Warn(ctx, "write reply", "remote", from.String(), "error", err)
	}
}

// handle always produces a reply, including for malformed requests and
// unknown verbs.
func (s *UDPServer) handle(ctx context.Context, from net.Addr, datagram []byte) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "auth handler panic", "remote", from.String(), "panic", r)
			reply = wire.ReplyFailed
		}
	}()

	if len(datagram) > wire.MaxDatagramSize {
		s.logger.Warn(ctx, "oversized datagram truncated", "remote", from.String(), "limit", wire.MaxDatagramSize)
		return wire.ReplyFailed
	}

	req, err := wire.ParseAuthRequest(datagram)
	if err != nil {
		s.logger.Warn(ctx, "bad auth request", "remote", from.String(), "error", err)
		return wire.ReplyFailed
	}

	s.logger.Info(ctx, "auth request", "verb", req.Verb, "login", req.Login, "remote", from.String())

	switch req.Verb {
	case wire.VerbLogin:
		token, err := s.auth.Login(ctx, req.Login, req.Secret)
		if err != nil {
			s.logger.Info(ctx, "login failed", "login", req.Login, "error", err)
			return wire.ReplyFailed
		}
		return token

	case wire.VerbLogout:
		if err := s.auth.Logout(ctx, req.Login, req.Secret); err != nil {
			s.logger.Info(ctx, "logout failed", "login", req.Login, "error", err)
			return wire.ReplyFailed
		}
		return wire.ReplyOK

	default:
		s.logger.Warn(ctx, "unknown auth verb", "verb", req.Verb, "remote", from.String())
		return wire.ReplyFailed
	}
}

package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Jan540/account-manager/internal/server/wire"
)

type AuthClient struct {
	addr    string
	timeout time.Duration
}

func NewAuthClient(addr string, timeout time.Duration) *AuthClient {
	return &AuthClient{addr: addr, timeout: timeout}
}

// Login presents the password hash and returns the session token.
func (c *AuthClient) Login(ctx context.Context, login, hash string) (string, error) {
	reply, err := c.exchange(ctx, wire.AuthRequest{Verb: wire.VerbLogin, Login: login, Secret: hash})
	if err != nil {
		return "", err
	}
	if reply == wire.ReplyFailed || reply == "" {
		return "", ErrUnauthorized
	}
	return reply, nil
}

func (c *AuthClient) Logout(ctx context.Context, login, token string) error {
	reply, err := c.exchange(ctx, wire.AuthRequest{Verb: wire.VerbLogout, Login: login, Secret: token})
	if err != nil {
		return err
	}
	if reply != wire.ReplyOK {
		return ErrLogoutFailed
	}
	return nil
}

func (c *AuthClient) exchange(ctx context.Context, req wire.AuthRequest) (string, error) {
	payload, err := wire.EncodeAuthRequest(req)
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", c.addr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", err
		}
	}

	if _, err := conn.Write(payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	buf := make([]byte, wire.MaxDatagramSize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return string(buf[:n]), nil
}

// withTimeout applies d unless ctx already carries a deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

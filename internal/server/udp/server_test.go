package udp

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/logging"
	"github.com/Jan540/account-manager/internal/server/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	mu      sync.Mutex
	logouts []string
	panics  bool
}

func (f *fakeAuth) Login(_ context.Context, login, hash string) (string, error) {
	if f.panics {
		panic("boom")
	}
	if login == "alice" && hash == "h1" {
		return "token-1", nil
	}
	return "", common.ErrUnauthorized
}

func (f *fakeAuth) Logout(_ context.Context, login, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if login != "alice" {
		return common.ErrNoSession
	}
	f.logouts = append(f.logouts, token)
	return nil
}

func startServer(t *testing.T, auth Authenticator) *UDPServer {
	t.Helper()

	srv := NewUDPServer("127.0.0.1:0", logging.Nop(), auth)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after cancel")
		}
	})

	select {
	case <-srv.Ready():
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server not ready")
	}
	return srv
}

func exchange(t *testing.T, addr net.Addr, msg string) string {
	t.Helper()

	conn, err := net.Dial("udp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))
	_, err = conn.Write([]byte(msg))
	require.NoError(t, err)

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestUDPServer_Replies(t *testing.T) {
	auth := &fakeAuth{}
	srv := startServer(t, auth)

	tests := []struct {
		name string
		req  string
		want string
	}{
		{"login ok", "login#alice#h1", "token-1"},
		{"login wrong hash", "login#alice#nope", "failed"},
		{"login unknown user", "login#nobody#h1", "failed"},
		{"logout ok", "logout#alice#whatever", "ok"},
		{"logout without session", "logout#bob#x", "failed"},
		{"unknown verb", "register#alice#h1", "failed"},
		{"malformed", "login#alice", "failed"},
		{"empty", "", "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exchange(t, srv.Addr(), tt.req))
		})
	}

	auth.mu.Lock()
	defer auth.mu.Unlock()
	assert.Equal(t, []string{"whatever"}, auth.logouts)
}

func TestUDPServer_OversizedDatagramFails(t *testing.T) {
	auth := &fakeAuth{}
	srv := startServer(t, auth)

	prefix := "logout#alice#"
	fits := prefix + strings.Repeat("x", wire.MaxDatagramSize-len(prefix))
	tooLong := prefix + strings.Repeat("x", wire.MaxDatagramSize)

	assert.Equal(t, "ok", exchange(t, srv.Addr(), fits))
	assert.Equal(t, "failed", exchange(t, srv.Addr(), tooLong))

	auth.mu.Lock()
	defer auth.mu.Unlock()
	require.Len(t, auth.logouts, 1, "a truncated request must not reach the authenticator")
}

func TestUDPServer_HandlerPanicStillReplies(t *testing.T) {
	srv := startServer(t, &fakeAuth{panics: true})

	assert.Equal(t, "failed", exchange(t, srv.Addr(), "login#alice#h1"))
	assert.Equal(t, "failed", exchange(t, srv.Addr(), "login#alice#h1"), "server keeps serving after a panic")
}

func TestUDPServer_ConcurrentClients(t *testing.T) {
	srv := startServer(t, &fakeAuth{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "token-1", exchange(t, srv.Addr(), "login#alice#h1"))
		}()
	}
	wg.Wait()
}

func TestUDPServer_BadAddress(t *testing.T) {
	t.Parallel()

	srv := NewUDPServer("127.0.0.1:99999", logging.Nop(), &fakeAuth{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.Error(t, srv.Run(ctx))
	assert.Nil(t, srv.Addr())
}

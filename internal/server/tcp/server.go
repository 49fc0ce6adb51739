// Package tcp serves the directory protocol. Every connection carries one
// command and its response; the server closes the connection after writing.
package tcp

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/Jan540/account-manager/internal/logging"
	"github.com/Jan540/account-manager/internal/server/models"
	"github.com/Jan540/account-manager/internal/server/wire"
)

// Directory is the state the commands read and change.
type Directory interface {
	ListUsers() []models.User
	ListGroups() []models.Group
	AddGroup(ctx context.Context, name string) (int, error)
	RemoveGroup(ctx context.Context, gid int) error
	AddMembership(ctx context.Context, gid, uid int) error
	RemoveMembership(ctx context.Context, gid, uid int) error
}

type TCPServer struct {
	address   string
	directory Directory
	logger    logging.Logger
	handlers  map[wire.Command]Handler

	ready     chan struct{}
	readyOnce sync.Once
	mu        sync.Mutex
	addr      net.Addr
}

func NewTCPServer(a string, l logging.Logger, d Directory) *TCPServer {
	s := &TCPServer{
		address:   a,
		directory: d,
		logger:    l.With("module", "tcp_server"),
		ready:     make(chan struct{}),
	}

	s.handlers = map[wire.Command]Handler{
		wire.CmdGetUsers:        s.getUsers,
		wire.CmdGetGroups:       s.getGroups,
		wire.CmdAddGroup:        s.addGroup,
		wire.CmdAddToGroup:      s.addToGroup,
		wire.CmdRemoveGroup:     s.removeGroup,
		wire.CmdRemoveFromGroup: s.removeFromGroup,
	}
	for cmd, h := range s.handlers {
		s.handlers[cmd] = Chain(h, s.logInterceptor, s.recoverInterceptor)
	}

	return s
}

// Ready is closed once the listener is bound.
func (s *TCPServer) Ready() <-chan struct{} { return s.ready }

// Addr is the bound address, nil before Ready.
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run accepts connections until ctx is cancelled. In-flight connections are
// not waited for.
func (s *TCPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.addr = listen.Addr()
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping TCP server...")
		listen.Close()
	}()

	s.logger.Info(ctx, "Starting TCP server", "address", listen.Addr().String())

	for {
		conn, err := listen.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn(ctx, "accept connection", "error", err)
			continue
		}

		go s.serve(ctx, conn)
	}
}

func (s *TCPServer) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	r := wire.NewReader(conn)

	result, err := s.dispatch(ctx, r, remote)
	if err != nil {
		err = wire.WriteError(conn, err)
	} else {
		err = wire.WriteResult(conn, result)
	}
	if err != nil {
		s.logger.Warn(ctx, "write response", "remote", remote, "error", err)
	}
}

func (s *TCPServer) dispatch(ctx context.Context, r wire.ByteReader, remote string) (any, error) {
	cmd, err := wire.ReadCommand(r)
	if err != nil {
		s.logger.Warn(ctx, "bad command", "remote", remote, "error", err)
		return nil, err
	}

	req, err := wire.ReadArguments(r, cmd)
	if err != nil {
		s.logger.Warn(ctx, "bad arguments", "command", cmd.String(), "remote", remote, "error", err)
		return nil, err
	}

	return s.handlers[cmd](withRemote(ctx, remote), req)
}

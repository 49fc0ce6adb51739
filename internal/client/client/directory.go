package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/Jan540/account-manager/internal/server/models"
	"github.com/Jan540/account-manager/internal/server/wire"
)

type DirectoryClient struct {
	addr    string
	timeout time.Duration
}

func NewDirectoryClient(addr string, timeout time.Duration) *DirectoryClient {
	return &DirectoryClient{addr: addr, timeout: timeout}
}

// Users lists every user ordered by last name, then first name.
func (c *DirectoryClient) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.call(ctx, wire.DirectoryRequest{Command: wire.CmdGetUsers}, &users)
	return users, err
}

// Groups lists every group with its members, ordered by name.
func (c *DirectoryClient) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := c.call(ctx, wire.DirectoryRequest{Command: wire.CmdGetGroups}, &groups)
	return groups, err
}

// AddGroup creates a group and returns its id.
func (c *DirectoryClient) AddGroup(ctx context.Context, name string) (int, error) {
	var gid int
	err := c.call(ctx, wire.DirectoryRequest{Command: wire.CmdAddGroup, GroupName: name}, &gid)
	return gid, err
}

func (c *DirectoryClient) RemoveGroup(ctx context.Context, gid int) error {
	return c.confirm(ctx, wire.DirectoryRequest{Command: wire.CmdRemoveGroup, GroupID: int32(gid)})
}

func (c *DirectoryClient) AddMember(ctx context.Context, gid, uid int) error {
	return c.confirm(ctx, wire.DirectoryRequest{Command: wire.CmdAddToGroup, GroupID: int32(gid), UserID: int32(uid)})
}

func (c *DirectoryClient) RemoveMember(ctx context.Context, gid, uid int) error {
	return c.confirm(ctx, wire.DirectoryRequest{Command: wire.CmdRemoveFromGroup, GroupID: int32(gid), UserID: int32(uid)})
}

func (c *DirectoryClient) confirm(ctx context.Context, req wire.DirectoryRequest) error {
	var ok bool
	if err := c.call(ctx, req, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s not acknowledged", req.Command)
	}
	return nil
}

func (c *DirectoryClient) call(ctx context.Context, req wire.DirectoryRequest, v any) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}

	if err := wire.EncodeDirectoryRequest(conn, req); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	body, err := io.ReadAll(conn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return wire.DecodeResult(body, v)
}

package tcp

import (
	"context"

	"github.com/Jan540/account-manager/internal/server/wire"
)

func (s *TCPServer) getUsers(_ context.Context, _ wire.DirectoryRequest) (any, error) {
	return s.directory.ListUsers(), nil
}

func (s *TCPServer) getGroups(_ context.Context, _ wire.DirectoryRequest) (any, error) {
	return s.directory.ListGroups(), nil
}

func (s *TCPServer) addGroup(ctx context.Context, req wire.DirectoryRequest) (any, error) {
	gid, err := s.directory.AddGroup(ctx, req.GroupName)
	if err != nil {
		return nil, err
	}
	return gid, nil
}

func (s *TCPServer) removeGroup(ctx context.Context, req wire.DirectoryRequest) (any, error) {
	if err := s.directory.RemoveGroup(ctx, int(req.GroupID)); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *TCPServer) addToGroup(ctx context.Context, req wire.DirectoryRequest) (any, error) {
	if err := s.directory.AddMembership(ctx, int(req.GroupID), int(req.UserID)); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *TCPServer) removeFromGroup(ctx context.Context, req wire.DirectoryRequest) (any, error) {
	if err := s.directory.RemoveMembership(ctx, int(req.GroupID), int(req.UserID)); err != nil {
		return nil, err
	}
	return true, nil
}

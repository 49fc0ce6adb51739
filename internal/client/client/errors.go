package client

import (
	"errors"

	"github.com/Jan540/account-manager/internal/server/wire"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrLogoutFailed = errors.New("logout failed")
)

// RemoteError carries the text of an error reported by the directory
// endpoint. errors.Is matches it against the sentinels in common.
type RemoteError = wire.RemoteError

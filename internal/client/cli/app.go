package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Jan540/account-manager/internal/client/client"
	"github.com/Jan540/account-manager/internal/client/config"
	"github.com/Jan540/account-manager/internal/server/models"
)

type authAPI interface {
	Login(ctx context.Context, login, hash string) (string, error)
	Logout(ctx context.Context, login, token string) error
}

type directoryAPI interface {
	Users(ctx context.Context) ([]models.User, error)
	Groups(ctx context.Context) ([]models.Group, error)
	AddGroup(ctx context.Context, name string) (int, error)
	RemoveGroup(ctx context.Context, gid int) error
	AddMember(ctx context.Context, gid, uid int) error
	RemoveMember(ctx context.Context, gid, uid int) error
}

type App struct {
	config    *config.Config
	auth      authAPI
	directory directoryAPI
	reader    *bufio.Reader
	out       io.Writer
	userName  string
	token     string
}

func NewApp(c *config.Config) (*App, error) {
	if c.AuthAddr == "" || c.DirectoryAddr == "" {
		return nil, fmt.Errorf("auth and directory addresses are required")
	}

	return &App{
		config:    c,
		auth:      client.NewAuthClient(c.AuthAddr, c.Timeout),
		directory: client.NewDirectoryClient(c.DirectoryAddr, c.Timeout),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Account manager CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)

	if a.isLoggedIn() {
		_ = a.Logout(ctx, nil)
	}
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

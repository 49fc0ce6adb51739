package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jan540/account-manager/internal/client/client"
	"github.com/Jan540/account-manager/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// credentials returns the login name (from args or a prompt) and the hash of
// the password read from the terminal.
func (a *App) credentials(args []string) (string, string, error) {
	var userName string
	if len(args) > 0 {
		userName = args[0]
	} else {
		var err error
		userName, err = getSimpleText(a.reader, "Enter login", a.out)
		if err != nil {
			return "", "", err
		}
	}
	if userName == "" {
		return "", "", errors.New("login must not be empty")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer cryptox.Wipe(password)

	return userName, cryptox.HashPassword(userName, password), nil
}

// Login authenticates and keeps the issued token for logout. Logging in
// again replaces the current session after closing it.
func (a *App) Login(ctx context.Context, args []string) error {
	userName, hash, err := a.credentials(args)
	if err != nil {
		return err
	}

	token, err := a.auth.Login(ctx, userName, hash)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("login unsuccessful: wrong login or password")
		}
		return err
	}

	if a.isLoggedIn() {
		_ = a.Logout(ctx, nil)
	}

	a.userName, a.token = userName, token
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout ends the session. The local state is cleared even when the server
// reports no session.
func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.auth.Logout(ctx, a.userName, a.token)
	a.userName, a.token = "", ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Hash prints the login hash for a password, as stored in users.csv.
func (a *App) Hash(_ context.Context, args []string) error {
	_, hash, err := a.credentials(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, hash)
	return nil
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Groups(ctx context.Context, args []string) error
	AddGroup(ctx context.Context, args []string) error
	RemoveGroup(ctx context.Context, args []string) error
	AddMember(ctx context.Context, args []string) error
	RemoveMember(ctx context.Context, args []string) error
	Hash(ctx context.Context, args []string) error
}

var errLoginRequired = errors.New("login first")

// runREPL reads one command per line from reader and dispatches it to a.
// Handler errors are printed and the loop continues. It returns on EOF or
// on "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "am%s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		needsLogin := true

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: users, groups, addgroup, rmgroup, addmember, rmmember, hash, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: login, hash, exit")
			}
			continue

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		case "login":
			handler, needsLogin = a.Login, false
		case "hash":
			handler, needsLogin = a.Hash, false
		case "logout":
			handler = a.Logout
		case "users":
			handler = a.Users
		case "groups":
			handler = a.Groups
		case "addgroup":
			handler = a.AddGroup
		case "rmgroup":
			handler = a.RemoveGroup
		case "addmember":
			handler = a.AddMember
		case "rmmember":
			handler = a.RemoveMember

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
			continue
		}

		if needsLogin && !a.isLoggedIn() {
			fmt.Fprintln(w, "error:", errLoginRequired)
			continue
		}
		if err := handler(ctx, args); err != nil {
			fmt.Fprintln(w, "error:", err)
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Jan540/account-manager/internal/server/models"
)

func (a *App) Users(ctx context.Context, _ []string) error {
	users, err := a.directory.Users(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tLOGIN\tNAME")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Login, fullName(u))
	}
	return tw.Flush()
}

func (a *App) Groups(ctx context.Context, _ []string) error {
	groups, err := a.directory.Groups(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GID\tNAME\tMEMBERS")
	for _, g := range groups {
		logins := make([]string, 0, len(g.Users))
		for _, u := range g.Users {
			logins = append(logins, u.Login)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Name, strings.Join(logins, ", "))
	}
	return tw.Flush()
}

func (a *App) AddGroup(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		return fmt.Errorf("usage: addgroup <name>")
	}

	gid, err := a.directory.AddGroup(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Group %q created with id %d\n", name, gid)
	return nil
}

func (a *App) RemoveGroup(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, "usage: rmgroup <gid>")
	if err != nil {
		return err
	}
	if err := a.directory.RemoveGroup(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Group %d removed\n", ids[0])
	return nil
}

func (a *App) AddMember(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, "usage: addmember <gid> <uid>")
	if err != nil {
		return err
	}
	if err := a.directory.AddMember(ctx, ids[0], ids[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %d added to group %d\n", ids[1], ids[0])
	return nil
}

func (a *App) RemoveMember(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, "usage: rmmember <gid> <uid>")
	if err != nil {
		return err
	}
	if err := a.directory.RemoveMember(ctx, ids[0], ids[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %d removed from group %d\n", ids[1], ids[0])
	return nil
}

// parseIDs converts args to ints. The number of expected ids is the number
// of "<...>" placeholders in usage.
func parseIDs(args []string, usage string) ([]int, error) {
	if len(args) != strings.Count(usage, "<") {
		return nil, fmt.Errorf("%s", usage)
	}

	ids := make([]int, len(args))
	for i, s := range args {
		id, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", usage, s)
		}
		ids[i] = int(id)
	}
	return ids, nil
}

func fullName(u models.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Package seed loads the initial directory contents. The directory is read
// once at startup from CSV files (a local directory or an S3 bucket) or from
// Postgres; changes made at runtime are never written back.
package seed

import (
	"context"
	"fmt"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/server/models"
)

// Data is the loaded directory: users by id, groups by id and the member ids
// of each group.
type Data struct {
	Users       map[int]models.User
	Groups      map[int]models.Group
	Memberships map[int][]int
}

// Loader produces the initial directory.
type Loader interface {
	Load(ctx context.Context) (*Data, error)
}

func newData() *Data {
	return &Data{
		Users:       make(map[int]models.User),
		Groups:      make(map[int]models.Group),
		Memberships: make(map[int][]int),
	}
}

// Validate checks that logins and group names are unique and that every
// membership refers to a known group and user.
func (d *Data) Validate() error {
	logins := make(map[string]int, len(d.Users))
	for id, u := range d.Users {
		if id != u.ID {
			return fmt.Errorf("%w: user keyed %d has uid %d", common.ErrInvalidSeed, id, u.ID)
		}
		if other, ok := logins[u.Login]; ok {
			return fmt.Errorf("%w: login %q used by users %d and %d", common.ErrInvalidSeed, u.Login, other, id)
		}
		logins[u.Login] = id
	}

	names := make(map[string]int, len(d.Groups))
	for id, g := range d.Groups {
		if id != g.ID {
			return fmt.Errorf("%w: group keyed %d has gid %d", common.ErrInvalidSeed, id, g.ID)
		}
		if other, ok := names[g.Name]; ok {
			return fmt.Errorf("%w: group name %q used by groups %d and %d", common.ErrInvalidSeed, g.Name, other, id)
		}
		names[g.Name] = id
	}

	for gid, uids := range d.Memberships {
		if _, ok := d.Groups[gid]; !ok {
			return fmt.Errorf("%w: membership references group %d", common.ErrInvalidSeed, gid)
		}
		for _, uid := range uids {
			if _, ok := d.Users[uid]; !ok {
				return fmt.Errorf("%w: group %d references user %d", common.ErrInvalidSeed, gid, uid)
			}
		}
	}

	return nil
}

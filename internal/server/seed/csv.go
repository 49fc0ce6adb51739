package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/server/models"
)

// File names expected by CSVLoader. Each file starts with a header line that
// is skipped; fields are separated by ';'.
const (
	UsersFile       = "users.csv"       // #UID;Login;Firstname;Lastname;Password Hash
	GroupsFile      = "groups.csv"      // #GID;Name
	MembershipsFile = "memberships.csv" // #GID;UID
)

// Source opens a named seed file.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// CSVLoader reads the three seed files from a Source.
type CSVLoader struct {
	src Source
}

func NewCSVLoader(src Source) *CSVLoader {
	return &CSVLoader{src: src}
}

func (l *CSVLoader) Load(ctx context.Context) (*Data, error) {
	d := newData()

	err := l.each(ctx, UsersFile, 5, func(rec []string) error {
		uid, err := strconv.Atoi(rec[0])
		if err != nil {
			return err
		}
		if _, dup := d.Users[uid]; dup {
			return fmt.Errorf("duplicate uid %d", uid)
		}
		d.Users[uid] = models.User{
			ID:           uid,
			Login:        rec[1],
			FirstName:    rec[2],
			LastName:     rec[3],
			PasswordHash: rec[4],
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = l.each(ctx, GroupsFile, 2, func(rec []string) error {
		gid, err := strconv.Atoi(rec[0])
		if err != nil {
			return err
		}
		if _, dup := d.Groups[gid]; dup {
			return fmt.Errorf("duplicate gid %d", gid)
		}
		d.Groups[gid] = models.Group{ID: gid, Name: rec[1]}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = l.each(ctx, MembershipsFile, 2, func(rec []string) error {
		gid, err := strconv.Atoi(rec[0])
		if err != nil {
			return err
		}
		uid, err := strconv.Atoi(rec[1])
		if err != nil {
			return err
		}
		d.Memberships[gid] = append(d.Memberships[gid], uid)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// each calls fn for every record after the header of the named file.
func (l *CSVLoader) each(ctx context.Context, name string, fields int, fn func([]string) error) error {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.Comma = ';'
	r.FieldsPerRecord = fields
	r.LazyQuotes = true

	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%w: %s: %v", common.ErrInvalidSeed, name, err)
		}
		if line == 1 {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("%w: %s line %d: %v", common.ErrInvalidSeed, name, line, err)
		}
	}
}

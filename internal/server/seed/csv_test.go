package seed

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]string

func (m mapSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s, ok := m[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(s)), nil
}

func validFiles() mapSource {
	return mapSource{
		UsersFile: "#UID;Login;Firstname;Lastname;Password Hash\n" +
			"1;al;Al;Anderson;h1\n" +
			"2;bo;Bo;Baker;h2\n",
		GroupsFile: "#GID;Name\n" +
			"10;staff\n" +
			"11;admins\n",
		MembershipsFile: "#GID;UID\n" +
			"10;1\n" +
			"10;2\n" +
			"11;2\n",
	}
}

func TestCSVLoader_Load(t *testing.T) {
	d, err := NewCSVLoader(validFiles()).Load(context.Background())
	require.NoError(t, err)

	wantUsers := map[int]models.User{
		1: {ID: 1, Login: "al", FirstName: "Al", LastName: "Anderson", PasswordHash: "h1"},
		2: {ID: 2, Login: "bo", FirstName: "Bo", LastName: "Baker", PasswordHash: "h2"},
	}
	assert.Empty(t, cmp.Diff(wantUsers, d.Users))
	assert.Equal(t, map[int]models.Group{10: {ID: 10, Name: "staff"}, 11: {ID: 11, Name: "admins"}}, d.Groups)
	assert.Equal(t, map[int][]int{10: {1, 2}, 11: {2}}, d.Memberships)
}

func TestCSVLoader_HeaderOnlyFiles(t *testing.T) {
	src := mapSource{
		UsersFile:       "#UID;Login;Firstname;Lastname;Password Hash\n",
		GroupsFile:      "#GID;Name\n",
		MembershipsFile: "#GID;UID\n",
	}
	d, err := NewCSVLoader(src).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, d.Users)
	assert.Empty(t, d.Groups)
	assert.Empty(t, d.Memberships)
}

func TestCSVLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m mapSource)
		invalid bool
	}{
		{
			name:   "missing file",
			mutate: func(m mapSource) { delete(m, GroupsFile) },
		},
		{
			name:    "bad uid",
			mutate:  func(m mapSource) { m[UsersFile] += "x;cy;Cy;Cole;h3\n" },
			invalid: true,
		},
		{
			name:    "wrong field count",
			mutate:  func(m mapSource) { m[GroupsFile] += "12;ops;extra\n" },
			invalid: true,
		},
		{
			name:    "duplicate gid",
			mutate:  func(m mapSource) { m[GroupsFile] += "10;other\n" },
			invalid: true,
		},
		{
			name:    "duplicate group name",
			mutate:  func(m mapSource) { m[GroupsFile] += "12;staff\n" },
			invalid: true,
		},
		{
			name:    "membership to unknown user",
			mutate:  func(m mapSource) { m[MembershipsFile] += "10;99\n" },
			invalid: true,
		},
		{
			name:    "membership to unknown group",
			mutate:  func(m mapSource) { m[MembershipsFile] += "99;1\n" },
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := validFiles()
			tt.mutate(src)

			_, err := NewCSVLoader(src).Load(context.Background())
			require.Error(t, err)
			if tt.invalid {
				assert.True(t, errors.Is(err, common.ErrInvalidSeed), "got %v", err)
			}
		})
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	for name, body := range validFiles() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	d, err := NewCSVLoader(DirSource{Dir: dir}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Users, 2)
	assert.Len(t, d.Groups, 2)
}

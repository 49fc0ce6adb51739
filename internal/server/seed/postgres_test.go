package seed

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Jan540/account-manager/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoaderWithMock(t *testing.T) (*PostgresLoader, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresLoader(db), mock
}

const (
	usersQuery       = `^SELECT uid, login, first_name, last_name, password_hash FROM users$`
	groupsQuery      = `^SELECT gid, name FROM groups$`
	membershipsQuery = `^SELECT gid, uid FROM memberships ORDER BY gid, uid$`
)

func TestPostgresLoader_Load(t *testing.T) {
	l, mock := newLoaderWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(usersQuery).WillReturnRows(
		sqlmock.NewRows([]string{"uid", "login", "first_name", "last_name", "password_hash"}).
			AddRow(1, "al", "Al", "Anderson", "h1").
			AddRow(2, "bo", "Bo", "Baker", "h2"))
	mock.ExpectQuery(groupsQuery).WillReturnRows(
		sqlmock.NewRows([]string{"gid", "name"}).AddRow(5, "staff"))
	mock.ExpectQuery(membershipsQuery).WillReturnRows(
		sqlmock.NewRows([]string{"gid", "uid"}).AddRow(5, 1).AddRow(5, 2))
	mock.ExpectCommit()

	d, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Anderson", d.Users[1].LastName)
	assert.Equal(t, "h2", d.Users[2].PasswordHash)
	assert.Equal(t, "staff", d.Groups[5].Name)
	assert.Equal(t, []int{1, 2}, d.Memberships[5])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoader_QueryError(t *testing.T) {
	l, mock := newLoaderWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(usersQuery).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoader_ScanError(t *testing.T) {
	l, mock := newLoaderWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(usersQuery).WillReturnRows(
		sqlmock.NewRows([]string{"uid", "login", "first_name", "last_name", "password_hash"}).
			AddRow("not-a-number", "al", "Al", "Anderson", "h1"))
	mock.ExpectRollback()

	_, err := l.Load(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoader_BeginError(t *testing.T) {
	l, mock := newLoaderWithMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many connections")
}

func TestPostgresLoader_InvalidData(t *testing.T) {
	l, mock := newLoaderWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(usersQuery).WillReturnRows(
		sqlmock.NewRows([]string{"uid", "login", "first_name", "last_name", "password_hash"}).
			AddRow(1, "al", "Al", "Anderson", "h1"))
	mock.ExpectQuery(groupsQuery).WillReturnRows(
		sqlmock.NewRows([]string{"gid", "name"}).AddRow(5, "staff"))
	mock.ExpectQuery(membershipsQuery).WillReturnRows(
		sqlmock.NewRows([]string{"gid", "uid"}).AddRow(5, 42))
	mock.ExpectCommit()

	_, err := l.Load(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidSeed)
}

func TestRunMigrations_UsesEmbeddedFS(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	gooseUpContext = func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		assert.Same(t, db, got)
		gotDir = dir
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	require.Error(t, RunMigrations(context.Background(), db))
}

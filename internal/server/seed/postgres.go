package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Jan540/account-manager/internal/dbx"
	"github.com/Jan540/account-manager/internal/server/migrations"
	"github.com/Jan540/account-manager/internal/server/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// PostgresLoader reads the directory from the users, groups and memberships
// tables.
type PostgresLoader struct {
	db *sql.DB
}

func NewPostgresLoader(db *sql.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

// OpenPostgres connects through pgx and brings the schema up to date.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresLoader, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return NewPostgresLoader(db), nil
}

// RunMigrations applies the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func (l *PostgresLoader) Close() error {
	return l.db.Close()
}

// Load reads all three tables inside one read-only transaction so the
// directory is a consistent snapshot.
func (l *PostgresLoader) Load(ctx context.Context) (*Data, error) {
	d := newData()

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := dbx.WithTx(ctx, l.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		err := each(ctx, tx, `SELECT uid, login, first_name, last_name, password_hash FROM users`, func(rows *sql.Rows) error {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Login, &u.FirstName, &u.LastName, &u.PasswordHash); err != nil {
				return err
			}
			d.Users[u.ID] = u
			return nil
		})
		if err != nil {
			return err
		}

		err = each(ctx, tx, `SELECT gid, name FROM groups`, func(rows *sql.Rows) error {
			var g models.Group
			if err := rows.Scan(&g.ID, &g.Name); err != nil {
				return err
			}
			d.Groups[g.ID] = g
			return nil
		})
		if err != nil {
			return err
		}

		return each(ctx, tx, `SELECT gid, uid FROM memberships ORDER BY gid, uid`, func(rows *sql.Rows) error {
			var gid, uid int
			if err := rows.Scan(&gid, &uid); err != nil {
				return err
			}
			d.Memberships[gid] = append(d.Memberships[gid], uid)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// each runs query and calls fn for every row.
func each(ctx context.Context, q dbx.DBTX, query string, fn func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

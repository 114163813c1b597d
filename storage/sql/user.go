/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package sql

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/ortuman/c2sgate/model"
)

// User represents a SQL user repository.
type User struct {
	db      *sql.DB
	sb      sq.StatementBuilderType
	dialect dialect
}

func newUser(db *sql.DB, d dialect) *User {
	return &User{db: db, sb: d.statementBuilder(), dialect: d}
}

// UpsertUser inserts a new user entity into storage, or updates it in case it's been previously inserted.
func (u *User) UpsertUser(ctx context.Context, usr *model.User) error {
	var suffix string
	switch u.dialect {
	case pgSQLDialect:
		suffix = "ON CONFLICT (username) DO UPDATE SET password = ?, updated_at = NOW()"
	default:
		suffix = "ON DUPLICATE KEY UPDATE password = ?, updated_at = NOW()"
	}
	q := u.sb.Insert("users").
		Columns("username", "password", "updated_at", "created_at").
		Values(usr.Username, usr.PasswordHash, nowExpr, nowExpr).
		Suffix(suffix, usr.PasswordHash)

	_, err := q.RunWith(u.db).ExecContext(ctx)
	return err
}

// DeleteUser deletes a user entity from storage.
func (u *User) DeleteUser(ctx context.Context, username string) error {
	_, err := u.sb.Delete("users").
		Where(sq.Eq{"username": username}).
		RunWith(u.db).
		ExecContext(ctx)
	return err
}

// FetchUser retrieves from storage a user entity.
func (u *User) FetchUser(ctx context.Context, username string) (*model.User, error) {
	q := u.sb.Select("username", "password").
		From("users").
		Where(sq.Eq{"username": username})

	var usr model.User
	err := q.RunWith(u.db).
		QueryRowContext(ctx).
		Scan(&usr.Username, &usr.PasswordHash)
	switch err {
	case nil:
		return &usr, nil
	case sql.ErrNoRows:
		return nil, nil
	default:
		return nil, err
	}
}

// UserExists returns whether or not a user exists within storage.
func (u *User) UserExists(ctx context.Context, username string) (bool, error) {
	q := u.sb.Select("COUNT(*)").
		From("users").
		Where(sq.Eq{"username": username})

	var count int
	err := q.RunWith(u.db).QueryRowContext(ctx).Scan(&count)
	switch err {
	case nil:
		return count > 0, nil
	default:
		return false, err
	}
}

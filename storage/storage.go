/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/ortuman/c2sgate/model"
	"github.com/ortuman/c2sgate/storage/memstorage"
	"github.com/ortuman/c2sgate/storage/repository"
	sqlstorage "github.com/ortuman/c2sgate/storage/sql"
	"github.com/pkg/errors"
)

// New initializes configured storage type and returns associated container.
func New(ctx context.Context, cfg *Config) (repository.Container, error) {
	switch cfg.Type {
	case Memory:
		return newMemoryStorage(ctx, cfg.Memory)
	case MySQL:
		c, err := sqlstorage.NewMySQL(cfg.MySQL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case PgSQL:
		c, err := sqlstorage.NewPgSQL(cfg.PgSQL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("storage: unrecognized storage type: %d", cfg.Type)
	}
}

func newMemoryStorage(ctx context.Context, cfg *MemoryConfig) (repository.Container, error) {
	s := memstorage.New()
	if cfg == nil {
		return s, nil
	}
	var usernames []string
	for username := range cfg.Users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	for _, username := range usernames {
		usr, err := model.NewUser(username, cfg.Users[username])
		if err != nil {
			return nil, errors.Wrapf(err, "storage: couldn't seed user %s", username)
		}
		if err := s.UpsertUser(ctx, usr); err != nil {
			return nil, err
		}
	}
	return s, nil
}

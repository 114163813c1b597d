/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/storage/repository"
	"github.com/pkg/errors"
)

// pingInterval defines how often to check the connection
var pingInterval = 15 * time.Second

// pingTimeout defines how long to wait for pong from server
var pingTimeout = 10 * time.Second

var nowExpr = sq.Expr("NOW()")

type dialect int

const (
	mySQLDialect dialect = iota
	pgSQLDialect
)

func (d dialect) String() string {
	switch d {
	case mySQLDialect:
		return "mysql"
	case pgSQLDialect:
		return "postgres"
	}
	return ""
}

func (d dialect) statementBuilder() sq.StatementBuilderType {
	if d == pgSQLDialect {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// Container represents a SQL storage container.
type Container struct {
	user    *User
	h       *sql.DB
	dialect dialect
	doneCh  chan chan bool
}

// NewMySQL initializes MySQL storage and returns associated container.
func NewMySQL(cfg *MySQLConfig) (*Container, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", cfg.User, cfg.Password, cfg.Host, cfg.Database)
	return open(mySQLDialect, dsn, cfg.PoolSize)
}

// NewPgSQL initializes PostgreSQL storage and returns associated container.
func NewPgSQL(cfg *PgSQLConfig) (*Container, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", cfg.User, cfg.Password, cfg.Host, cfg.Database, cfg.SSLMode)
	return open(pgSQLDialect, dsn, cfg.PoolSize)
}

func open(d dialect, dsn string, poolSize int) (*Container, error) {
	h, err := sql.Open(d.String(), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "sql: failed to open %s database", d)
	}
	h.SetMaxOpenConns(poolSize) // set max opened connection count

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := h.PingContext(ctx); err != nil {
		_ = h.Close()
		return nil, errors.Wrapf(err, "sql: failed to ping %s database", d)
	}
	return newContainer(h, d), nil
}

func newContainer(h *sql.DB, d dialect) *Container {
	c := &Container{
		user:    newUser(h, d),
		h:       h,
		dialect: d,
		doneCh:  make(chan chan bool, 1),
	}
	go c.loop()
	return c
}

// User returns SQL user repository.
func (c *Container) User() repository.User { return c.user }

// Close closes underlying database handle.
func (c *Container) Close(ctx context.Context) error {
	ch := make(chan bool)
	c.doneCh <- ch
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Container) loop() {
	tc := time.NewTicker(pingInterval)
	defer tc.Stop()

	for {
		select {
		case <-tc.C:
			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			if err := c.h.PingContext(ctx); err != nil {
				log.Error(err)
			}
			cancel()

		case ch := <-c.doneCh:
			if err := c.h.Close(); err != nil {
				log.Error(err)
			}
			close(ch)
			return
		}
	}
}

/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package storage

import (
	"errors"
	"fmt"

	sqlstorage "github.com/ortuman/c2sgate/storage/sql"
)

// Type represents a storage manager type.
type Type int

const (
	// Memory represents an in-memory storage type.
	Memory Type = iota

	// MySQL represents a MySQL storage type.
	MySQL

	// PgSQL represents a PostgreSQL storage type.
	PgSQL
)

// String returns storage type string representation.
func (t Type) String() string {
	switch t {
	case Memory:
		return "memory"
	case MySQL:
		return "mysql"
	case PgSQL:
		return "pgsql"
	}
	return ""
}

// Config represents an storage manager configuration.
type Config struct {
	Type   Type
	Memory *MemoryConfig
	MySQL  *sqlstorage.MySQLConfig
	PgSQL  *sqlstorage.PgSQLConfig
}

// MemoryConfig represents in-memory storage configuration.
type MemoryConfig struct {
	// Users maps usernames to plain text passwords, hashed on load.
	Users map[string]string `yaml:"users"`
}

type storageProxyType struct {
	Type   string                  `yaml:"type"`
	Memory *MemoryConfig           `yaml:"memory"`
	MySQL  *sqlstorage.MySQLConfig `yaml:"mysql"`
	PgSQL  *sqlstorage.PgSQLConfig `yaml:"pgsql"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := storageProxyType{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	switch p.Type {
	case "memory", "":
		c.Type = Memory
		c.Memory = p.Memory

	case "mysql":
		if p.MySQL == nil {
			return errors.New("storage.Config: couldn't read MySQL configuration")
		}
		c.Type = MySQL
		c.MySQL = p.MySQL

	case "pgsql":
		if p.PgSQL == nil {
			return errors.New("storage.Config: couldn't read PostgreSQL configuration")
		}
		c.Type = PgSQL
		c.PgSQL = p.PgSQL

	default:
		return fmt.Errorf("storage.Config: unrecognized storage type: %s", p.Type)
	}
	return nil
}

/*
 * Copyright (c) 2019 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package sql

// DefaultPoolSize defines the default size of the database connection pool
const DefaultPoolSize = 16

const defaultSSLMode = "disable"

// MySQLConfig represents MySQL storage configuration.
type MySQLConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	PoolSize int    `yaml:"pool_size"`
}

// UnmarshalYAML satisfies Unmarshaler interface
func (c *MySQLConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawConfig MySQLConfig

	parsed := rawConfig{PoolSize: DefaultPoolSize}
	if err := unmarshal(&parsed); err != nil {
		return err
	}
	*c = MySQLConfig(parsed)
	return nil
}

// PgSQLConfig represents PostgreSQL storage configuration.
type PgSQLConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	PoolSize int    `yaml:"pool_size"`
}

// UnmarshalYAML satisfies Unmarshaler interface
func (c *PgSQLConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawConfig PgSQLConfig

	parsed := rawConfig{PoolSize: DefaultPoolSize, SSLMode: defaultSSLMode}
	if err := unmarshal(&parsed); err != nil {
		return err
	}
	*c = PgSQLConfig(parsed)
	return nil
}

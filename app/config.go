/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package app

import (
	"bytes"
	"errors"
	"os"

	"github.com/ortuman/c2sgate/bus"
	"github.com/ortuman/c2sgate/c2s"
	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/storage"
	"gopkg.in/yaml.v2"
)

// debugConfig represents debug server configuration.
type debugConfig struct {
	Port int `yaml:"port"`
}

// Config represents a global configuration.
type Config struct {
	PIDFile string         `yaml:"pid_path"`
	Debug   debugConfig    `yaml:"debug"`
	Logger  log.Config     `yaml:"logger"`
	Storage storage.Config `yaml:"storage"`
	Bus     bus.Config     `yaml:"bus"`
	C2S     *c2s.Config    `yaml:"c2s"`
}

// FromFile loads default global configuration from
// a specified file.
func (cfg *Config) FromFile(configFile string) error {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	return cfg.unmarshal(b)
}

// FromBuffer loads default global configuration from
// a specified byte buffer.
func (cfg *Config) FromBuffer(buf *bytes.Buffer) error {
	return cfg.unmarshal(buf.Bytes())
}

func (cfg *Config) unmarshal(b []byte) error {
	cfg.Logger.Level = log.InfoLevel
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return err
	}
	if cfg.C2S == nil {
		return errors.New("app.Config: missing c2s configuration")
	}
	return nil
}

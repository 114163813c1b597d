/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package bus

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultNATSSubjectPrefix = "c2sgate"
	defaultNATSReconnectWait = 2 * time.Second
	defaultNATSMaxReconnects = -1
	defaultNATSDrainTimeout  = 5 * time.Second
)

// Type represents a bus type.
type Type int

const (
	// Memory represents an in-process bus.
	Memory Type = iota

	// NATS represents a NATS backed bus.
	NATS
)

// String returns bus type string representation.
func (t Type) String() string {
	switch t {
	case Memory:
		return "memory"
	case NATS:
		return "nats"
	}
	return ""
}

// Config represents a bus configuration.
type Config struct {
	Type Type
	NATS *NATSConfig
}

// NATSConfig represents NATS bus configuration.
type NATSConfig struct {
	URL           string
	Name          string
	SubjectPrefix string
	ReconnectWait time.Duration
	MaxReconnects int
	DrainTimeout  time.Duration
}

type natsProxyType struct {
	URL           string `yaml:"url"`
	Name          string `yaml:"name"`
	SubjectPrefix string `yaml:"subject_prefix"`
	ReconnectWait int    `yaml:"reconnect_wait"`
	MaxReconnects *int   `yaml:"max_reconnects"`
	DrainTimeout  int    `yaml:"drain_timeout"`
}

type busProxyType struct {
	Type string         `yaml:"type"`
	NATS *natsProxyType `yaml:"nats"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := busProxyType{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	switch p.Type {
	case "memory", "":
		c.Type = Memory

	case "nats":
		if p.NATS == nil || len(p.NATS.URL) == 0 {
			return errors.New("bus.Config: couldn't read NATS configuration")
		}
		c.Type = NATS
		c.NATS = &NATSConfig{
			URL:           p.NATS.URL,
			Name:          p.NATS.Name,
			SubjectPrefix: p.NATS.SubjectPrefix,
			ReconnectWait: time.Duration(p.NATS.ReconnectWait) * time.Second,
			MaxReconnects: defaultNATSMaxReconnects,
			DrainTimeout:  time.Duration(p.NATS.DrainTimeout) * time.Second,
		}
		if p.NATS.MaxReconnects != nil {
			c.NATS.MaxReconnects = *p.NATS.MaxReconnects
		}
		c.NATS.setDefaults()

	default:
		return fmt.Errorf("bus.Config: unrecognized bus type: %s", p.Type)
	}
	return nil
}

func (c *NATSConfig) setDefaults() {
	if len(c.SubjectPrefix) == 0 {
		c.SubjectPrefix = defaultNATSSubjectPrefix
	}
	if c.ReconnectWait == 0 {
		c.ReconnectWait = defaultNATSReconnectWait
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = defaultNATSDrainTimeout
	}
}

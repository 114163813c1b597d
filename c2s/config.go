/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package c2s

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ortuman/c2sgate/auth"
	"github.com/ortuman/c2sgate/router"
	"github.com/ortuman/c2sgate/transport"
)

const (
	defaultTransportPort           = 5222
	defaultTransportKeepAlive      = 120
	defaultTransportConnectTimeout = 5
	defaultTransportMaxStanzaSize  = 32768
)

// ValidatorType represents a SASL credentials validator type.
type ValidatorType int

const (
	// StorageValidator checks credentials against stored users.
	StorageValidator ValidatorType = iota

	// AllowAllValidator accepts any credentials.
	AllowAllValidator
)

// String returns ValidatorType string representation.
func (vt ValidatorType) String() string {
	switch vt {
	case StorageValidator:
		return "storage"
	case AllowAllValidator:
		return "allow_all"
	}
	return ""
}

// SASLConfig represents SASL authentication configuration.
type SASLConfig struct {
	Mechanisms []string
	Validator  ValidatorType
}

type saslConfigProxy struct {
	Mechanisms []string `yaml:"mechanisms"`
	Validator  string   `yaml:"validator"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (cfg *SASLConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := saslConfigProxy{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	for _, mech := range p.Mechanisms {
		switch strings.ToLower(mech) {
		case "plain":
			break
		default:
			return fmt.Errorf("c2s.SASLConfig: unsupported mechanism: %s", mech)
		}
	}
	cfg.Mechanisms = p.Mechanisms
	if len(cfg.Mechanisms) == 0 {
		cfg.Mechanisms = []string{"plain"}
	}
	switch strings.ToLower(p.Validator) {
	case "", "storage":
		cfg.Validator = StorageValidator
	case "allow_all":
		cfg.Validator = AllowAllValidator
	default:
		return fmt.Errorf("c2s.SASLConfig: unrecognized validator: %s", p.Validator)
	}
	return nil
}

// TransportConfig represents an XMPP stream transport configuration.
type TransportConfig struct {
	BindAddress string
	Port        int
}

type transportProxyType struct {
	BindAddress string `yaml:"bind_addr"`
	Port        int    `yaml:"port"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (t *TransportConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := transportProxyType{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	t.BindAddress = p.BindAddress
	t.Port = p.Port
	if t.Port == 0 {
		t.Port = defaultTransportPort
	}
	return nil
}

// Config represents C2S server configuration.
type Config struct {
	ID             string
	Domains        []string
	ConnectTimeout time.Duration
	KeepAlive      time.Duration
	MaxStanzaSize  int
	MaxConnections int
	SASL           SASLConfig
	Transport      TransportConfig
}

type configProxy struct {
	ID             string          `yaml:"id"`
	Domains        []string        `yaml:"domains"`
	ConnectTimeout int             `yaml:"connect_timeout"`
	KeepAlive      int             `yaml:"keep_alive"`
	MaxStanzaSize  int             `yaml:"max_stanza_size"`
	MaxConnections int             `yaml:"max_connections"`
	SASL           *SASLConfig     `yaml:"sasl"`
	Transport      TransportConfig `yaml:"transport"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (cfg *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := configProxy{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	// validate server identifier
	if len(p.ID) == 0 {
		return errors.New("c2s.Config: server identifier must be specified")
	}
	cfg.ID = p.ID

	if len(p.Domains) == 0 {
		return errors.New("c2s.Config: at least one served domain must be specified")
	}
	for _, domain := range p.Domains {
		if len(domain) == 0 {
			return errors.New("c2s.Config: empty served domain")
		}
	}
	cfg.Domains = p.Domains

	if p.MaxConnections < 0 {
		return fmt.Errorf("c2s.Config: invalid max_connections value: %d", p.MaxConnections)
	}
	cfg.MaxConnections = p.MaxConnections

	cfg.ConnectTimeout = time.Duration(p.ConnectTimeout) * time.Second
	if p.ConnectTimeout == 0 {
		cfg.ConnectTimeout = time.Duration(defaultTransportConnectTimeout) * time.Second
	}
	cfg.KeepAlive = time.Duration(p.KeepAlive) * time.Second
	if p.KeepAlive == 0 {
		cfg.KeepAlive = time.Duration(defaultTransportKeepAlive) * time.Second
	}
	cfg.MaxStanzaSize = p.MaxStanzaSize
	if cfg.MaxStanzaSize == 0 {
		cfg.MaxStanzaSize = defaultTransportMaxStanzaSize
	}
	if p.SASL != nil {
		cfg.SASL = *p.SASL
	} else {
		cfg.SASL = SASLConfig{Mechanisms: []string{"plain"}, Validator: StorageValidator}
	}
	cfg.Transport = p.Transport
	if cfg.Transport.Port == 0 {
		cfg.Transport.Port = defaultTransportPort
	}
	return nil
}

type streamConfig struct {
	domains        []string
	connectTimeout time.Duration
	maxStanzaSize  int
	transport      transport.Transport
	authenticator  auth.Authenticator
	router         *router.Router
	onDisconnect   func(s *inStream)
}

/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package c2s

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestSASLConfig(t *testing.T) {
	cfg := SASLConfig{}
	err := yaml.Unmarshal([]byte("{mechanisms: [plain], validator: allow_all}"), &cfg)
	require.Nil(t, err)
	require.Equal(t, []string{"plain"}, cfg.Mechanisms)
	require.Equal(t, AllowAllValidator, cfg.Validator)
	require.Equal(t, "allow_all", cfg.Validator.String())

	cfg = SASLConfig{}
	err = yaml.Unmarshal([]byte("{validator: storage}"), &cfg)
	require.Nil(t, err)
	require.Equal(t, []string{"plain"}, cfg.Mechanisms)
	require.Equal(t, StorageValidator, cfg.Validator)

	err = yaml.Unmarshal([]byte("{mechanisms: [scram_sha_1]}"), &cfg)
	require.NotNil(t, err)

	err = yaml.Unmarshal([]byte("{validator: ldap}"), &cfg)
	require.NotNil(t, err)
}

func TestTransportConfig(t *testing.T) {
	tr := TransportConfig{}
	err := yaml.Unmarshal([]byte("{bind_addr: 127.0.0.1}"), &tr)
	require.Nil(t, err)
	require.Equal(t, "127.0.0.1", tr.BindAddress)
	require.Equal(t, defaultTransportPort, tr.Port)

	err = yaml.Unmarshal([]byte("{port: 15222}"), &tr)
	require.Nil(t, err)
	require.Equal(t, 15222, tr.Port)
}

func TestServerConfig(t *testing.T) {
	s := Config{}
	err := yaml.Unmarshal([]byte("{id: default, domains: [localhost]}"), &s)
	require.Nil(t, err)
	require.Equal(t, "default", s.ID)
	require.Equal(t, []string{"localhost"}, s.Domains)
	require.Equal(t, time.Duration(defaultTransportConnectTimeout)*time.Second, s.ConnectTimeout)
	require.Equal(t, time.Duration(defaultTransportKeepAlive)*time.Second, s.KeepAlive)
	require.Equal(t, defaultTransportMaxStanzaSize, s.MaxStanzaSize)
	require.Equal(t, defaultTransportPort, s.Transport.Port)
	require.Equal(t, []string{"plain"}, s.SASL.Mechanisms)
	require.Equal(t, StorageValidator, s.SASL.Validator)

	// missing identifier...
	err = yaml.Unmarshal([]byte("{domains: [localhost]}"), &s)
	require.NotNil(t, err)

	// missing domains...
	err = yaml.Unmarshal([]byte("{id: default}"), &s)
	require.NotNil(t, err)

	err = yaml.Unmarshal([]byte("{id: default, domains: ['']}"), &s)
	require.NotNil(t, err)

	err = yaml.Unmarshal([]byte("{id: default, domains: [localhost], max_connections: -1}"), &s)
	require.NotNil(t, err)

	cfg := `
id: default
domains: [jackal.im, localhost]
connect_timeout: 10
keep_alive: 60
max_stanza_size: 8192
max_connections: 100
sasl:
  mechanisms: [plain]
  validator: allow_all
transport:
  bind_addr: 0.0.0.0
  port: 5223
`
	s = Config{}
	err = yaml.Unmarshal([]byte(cfg), &s)
	require.Nil(t, err)
	require.Equal(t, []string{"jackal.im", "localhost"}, s.Domains)
	require.Equal(t, 10*time.Second, s.ConnectTimeout)
	require.Equal(t, 60*time.Second, s.KeepAlive)
	require.Equal(t, 8192, s.MaxStanzaSize)
	require.Equal(t, 100, s.MaxConnections)
	require.Equal(t, AllowAllValidator, s.SASL.Validator)
	require.Equal(t, "0.0.0.0", s.Transport.BindAddress)
	require.Equal(t, 5223, s.Transport.Port)

	// invalid sasl section...
	err = yaml.Unmarshal([]byte("{id: default, domains: [localhost], sasl: {mechanisms: [digest_md5]}}"), &s)
	require.NotNil(t, err)
}

/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestConfig_Memory(t *testing.T) {
	cfg := Config{}
	err := yaml.Unmarshal([]byte(`type: memory`), &cfg)
	require.Nil(t, err)
	require.Equal(t, Memory, cfg.Type)
	require.Equal(t, "memory", cfg.Type.String())

	cfg = Config{}
	err = yaml.Unmarshal([]byte(`{}`), &cfg)
	require.Nil(t, err)
	require.Equal(t, Memory, cfg.Type)
}

func TestConfig_NATS(t *testing.T) {
	cfg := Config{}
	err := yaml.Unmarshal([]byte(`type: nats`), &cfg)
	require.NotNil(t, err)

	cfg = Config{}
	err = yaml.Unmarshal([]byte(`
type: nats
nats:
  url: nats://127.0.0.1:4222
  reconnect_wait: 5
`), &cfg)
	require.Nil(t, err)
	require.Equal(t, NATS, cfg.Type)
	require.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	require.Equal(t, "c2sgate", cfg.NATS.SubjectPrefix)
	require.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait)
	require.Equal(t, -1, cfg.NATS.MaxReconnects)
	require.Equal(t, defaultNATSDrainTimeout, cfg.NATS.DrainTimeout)

	cfg = Config{}
	err = yaml.Unmarshal([]byte(`
type: nats
nats:
  url: nats://127.0.0.1:4222
  max_reconnects: 0
`), &cfg)
	require.Nil(t, err)
	require.Equal(t, 0, cfg.NATS.MaxReconnects)
}

func TestConfig_InvalidType(t *testing.T) {
	cfg := Config{}
	err := yaml.Unmarshal([]byte(`type: zmq`), &cfg)
	require.NotNil(t, err)
}

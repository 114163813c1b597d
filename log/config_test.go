/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

func TestLoggerConfig(t *testing.T) {
	for src, lvl := range map[string]LogLevel{
		"{level: debug}":   DebugLevel,
		"{level: info}":    InfoLevel,
		"{level: warning}": WarningLevel,
		"{level: error}":   ErrorLevel,
		"{level: fatal}":   FatalLevel,
		"{}":               InfoLevel,
	} {
		c := Config{}
		err := yaml.Unmarshal([]byte(src), &c)
		require.Nil(t, err)
		require.Equal(t, lvl, c.Level)
	}
	c := Config{}
	err := yaml.Unmarshal([]byte("{level: invalid}"), &c)
	require.NotNil(t, err)

	err = yaml.Unmarshal([]byte("{log_path: c2sgate.log}"), &c)
	require.Nil(t, err)
	require.Equal(t, "c2sgate.log", c.LogPath)
}

func TestLoggerBadConfig(t *testing.T) {
	c := Config{}
	err := yaml.Unmarshal([]byte("level"), &c)
	require.NotNil(t, err)
}

func TestLogLevelMapping(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, DebugLevel.zapLevel())
	require.Equal(t, zapcore.InfoLevel, InfoLevel.zapLevel())
	require.Equal(t, zapcore.WarnLevel, WarningLevel.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, ErrorLevel.zapLevel())
	require.Equal(t, zapcore.FatalLevel, FatalLevel.zapLevel())
}

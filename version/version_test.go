/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion_String(t *testing.T) {
	require.Equal(t, "v1.9.2", NewVersion(1, 9, 2).String())
	require.Equal(t, "v0.1.0", ApplicationVersion.String())
}

func TestVersion_Compare(t *testing.T) {
	v1 := NewVersion(1, 9, 2)

	require.True(t, v1.IsEqual(v1))
	require.True(t, v1.IsEqual(NewVersion(1, 9, 2)))
	require.False(t, v1.IsEqual(NewVersion(1, 8, 2)))

	require.True(t, NewVersion(1, 9, 3).IsGreater(v1))
	require.True(t, NewVersion(1, 10, 0).IsGreater(v1))
	require.True(t, NewVersion(2, 0, 0).IsGreater(v1))
	require.False(t, v1.IsGreater(v1))

	require.True(t, NewVersion(1, 9, 1).IsLess(v1))
	require.True(t, NewVersion(0, 99, 99).IsLess(v1))
	require.False(t, NewVersion(1, 9, 3).IsLess(v1))
}

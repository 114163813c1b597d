/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package jid_test

import (
	"strings"
	"testing"

	"github.com/ortuman/c2sgate/xmpp/jid"
	"github.com/stretchr/testify/require"
)

func TestParseJID(t *testing.T) {
	j, err := jid.Parse("ortuman@jackal.im/res")
	require.Nil(t, err)
	require.Equal(t, "ortuman", j.Local())
	require.Equal(t, "jackal.im", j.Domain())
	require.Equal(t, "res", j.Resource())
	require.True(t, j.IsFull())
	require.False(t, j.IsBare())

	j2, err := jid.Parse("jackal.im")
	require.Nil(t, err)
	require.Equal(t, "", j2.Local())
	require.Equal(t, "jackal.im", j2.Domain())
	require.Equal(t, "", j2.Resource())

	// resource may contain '@' and '/'
	j3, err := jid.Parse("ortuman@jackal.im/a/b@c")
	require.Nil(t, err)
	require.Equal(t, "a/b@c", j3.Resource())
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{
		"ortuman@jackal.im/res",
		"ortuman@jackal.im",
		"jackal.im",
		"localhost",
		"a!b#c$d%e(f)g*h+i,j-k.l;m=n?o~@example.com/Phone 1",
		"ñandú@example.com/móvil",
		"user@127.0.0.1/res",
		"user@[::1]",
		"user@example.com/\U0001F600",
	} {
		j, err := jid.Parse(s)
		require.Nil(t, err, s)
		require.Equal(t, s, j.String())
	}
}

func TestEmptyDomain(t *testing.T) {
	for _, s := range []string{"", "ortuman@", "ortuman@/res", "/res"} {
		_, err := jid.Parse(s)
		require.NotNil(t, err, s)
		_, ok := err.(*jid.FormatError)
		require.True(t, ok)
	}
}

func TestEmptyParts(t *testing.T) {
	_, err := jid.Parse("@jackal.im")
	require.NotNil(t, err)
	_, err = jid.Parse("ortuman@jackal.im/")
	require.NotNil(t, err)
}

func TestEqual(t *testing.T) {
	j1, _ := jid.Parse("alice@example.com")
	j2, _ := jid.Parse("alice@example.com")
	j3, _ := jid.Parse("alice@example.com/phone")
	j4, _ := jid.Parse("Alice@example.com")

	require.True(t, j1.Equal(j2))
	require.False(t, j1.Equal(j3))
	require.False(t, j1.Equal(j4))
	require.False(t, j1.Equal(nil))
}

func TestBare(t *testing.T) {
	j, _ := jid.Parse("alice@example.com/phone")
	bare, err := j.Bare()
	require.Nil(t, err)
	require.Equal(t, "alice@example.com", bare.String())
	require.True(t, bare.IsBare())

	srv, _ := jid.Parse("example.com")
	_, err = srv.Bare()
	require.NotNil(t, err)
	_, ok := err.(*jid.AttributeError)
	require.True(t, ok)
}

func TestLocalPartCharacters(t *testing.T) {
	for _, c := range []string{"/", "<", ">", "\"", "&", "'", ":", " ", "\t", "\x00", "\x7f"} {
		j, err := jid.New("ali"+c+"ce", "example.com", "")
		require.NotNil(t, err, "%q", c)
		require.Nil(t, j)
	}
	// '@' splits the local part when parsing
	_, err := jid.New("ali@ce", "example.com", "")
	require.NotNil(t, err)

	for _, l := range []string{"alice!", "#alice", "Alice99", "a;b=c?d"} {
		j, err := jid.New(l, "example.com", "")
		require.Nil(t, err, l)
		require.True(t, j.Validate())
	}
}

func TestResourceCharacters(t *testing.T) {
	_, err := jid.New("alice", "example.com", "res\x1f")
	require.NotNil(t, err)
	_, err = jid.New("alice", "example.com", "res\xff")
	require.NotNil(t, err)

	j, err := jid.New("alice", "example.com", "<any> \"thing\" & more")
	require.Nil(t, err)
	require.Equal(t, "alice@example.com/<any> \"thing\" & more", j.String())
}

func TestDomainRules(t *testing.T) {
	_, err := jid.Parse("alice@-example.com")
	require.NotNil(t, err)
	_, err = jid.Parse("alice@example.c0m1")
	require.Nil(t, err)
	_, err = jid.Parse("alice@example.1com")
	require.NotNil(t, err)
	_, err = jid.Parse("alice@exa_mple.com")
	require.NotNil(t, err)

	// dotted names are bounded to a hostname length
	label := strings.Repeat("a", 60)
	long := strings.Join([]string{label, label, label, label, label}, ".") + ".com"
	_, err = jid.Parse("alice@" + long)
	require.NotNil(t, err)

	// names without an internal dot are only bounded by size
	_, err = jid.Parse("alice@" + strings.Repeat("a", 1024))
	require.Nil(t, err)
	_, err = jid.Parse("alice@" + strings.Repeat("a", 1025))
	require.NotNil(t, err)
}

func TestPartSizes(t *testing.T) {
	longStr := strings.Repeat("a", 1025)
	_, err := jid.New(longStr, "example.org", "res")
	require.NotNil(t, err)
	_, err = jid.New("ortuman", "example.org", longStr)
	require.NotNil(t, err)

	_, err = jid.New(strings.Repeat("a", 1024), "example.org", strings.Repeat("r", 1024))
	require.Nil(t, err)
}

func TestWithResource(t *testing.T) {
	j, _ := jid.Parse("alice@example.com")
	full, err := j.WithResource("phone")
	require.Nil(t, err)
	require.Equal(t, "alice@example.com/phone", full.String())
	require.Equal(t, "alice@example.com", j.String())

	_, err = j.WithResource("bad\x01")
	require.NotNil(t, err)
}

/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package streamerror

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamError(t *testing.T) {
	for reason, err := range map[string]*Error{
		"host-unknown":            ErrHostUnknown,
		"unsupported-version":     ErrUnsupportedVersion,
		"invalid-from":            ErrInvalidFrom,
		"not-authorized":          ErrNotAuthorized,
		"bad-format":              ErrBadRequest,
		"conflict":                ErrConflict,
		"invalid-namespace":       ErrMalformedRequest,
		"invalid-xml":             ErrInvalidXML,
		"connection-timeout":      ErrConnectionTimeout,
		"unsupported-stanza-type": ErrUnsupportedStanzaType,
		"system-shutdown":         ErrSystemShutdown,
		"internal-server-error":   ErrInternalServerError,
	} {
		require.Equal(t, reason, err.Error())
		require.Equal(t, reason, err.Reason())

		elem := err.Element()
		require.Equal(t, "stream:error", elem.Name())
		require.Equal(t, 1, elem.Elements().Count())
		require.Equal(t, reason, elem.Elements().All()[0].Name())
		require.Equal(t, streamsNamespace, elem.Elements().All()[0].Namespace())
	}
	require.Equal(t, "policy-violation", ErrNotAllowed.Error())
	require.Equal(t, "policy-violation", ErrPolicyViolation.Error())
	require.False(t, ErrNotAllowed == ErrPolicyViolation)
}

func TestStreamErrorXML(t *testing.T) {
	require.Equal(t,
		`<stream:error><conflict xmlns="urn:ietf:params:xml:ns:xmpp-streams"/></stream:error>`,
		ErrConflict.Element().String(),
	)
}

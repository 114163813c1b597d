/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package streamerror

import (
	"github.com/ortuman/c2sgate/xmpp"
)

const streamsNamespace = "urn:ietf:params:xml:ns:xmpp-streams"

// Error represents a "stream:error" element.
// Every stream error is fatal for the connection that raised it.
type Error struct {
	reason string
}

var (
	// ErrHostUnknown is raised when the stream 'to' attribute names a domain not served here.
	ErrHostUnknown = newStreamError("host-unknown")

	// ErrUnsupportedVersion is raised when the client declares a stream version other than 1.0.
	ErrUnsupportedVersion = newStreamError("unsupported-version")

	// ErrInvalidFrom is raised when the stream 'from' attribute is not a valid JID.
	ErrInvalidFrom = newStreamError("invalid-from")

	// ErrNotAllowed is raised on a re-authentication attempt.
	ErrNotAllowed = newStreamError("policy-violation")

	// ErrNotAuthorized is raised when a stanza requires a missing authentication or binding.
	ErrNotAuthorized = newStreamError("not-authorized")

	// ErrBadRequest is raised on a malformed bind request or when the bound JID is invalid.
	ErrBadRequest = newStreamError("bad-format")

	// ErrConflict is raised when the full JID is already bound by another session.
	ErrConflict = newStreamError("conflict")

	// ErrMalformedRequest is raised when an auth element namespace is not the SASL one.
	ErrMalformedRequest = newStreamError("invalid-namespace")

	// ErrInvalidXML represents 'invalid-xml' stream error.
	ErrInvalidXML = newStreamError("invalid-xml")

	// ErrPolicyViolation represents 'policy-violation' stream error.
	ErrPolicyViolation = newStreamError("policy-violation")

	// ErrConnectionTimeout represents 'connection-timeout' stream error.
	ErrConnectionTimeout = newStreamError("connection-timeout")

	// ErrUnsupportedStanzaType represents 'unsupported-stanza-type' stream error.
	ErrUnsupportedStanzaType = newStreamError("unsupported-stanza-type")

	// ErrSystemShutdown represents 'system-shutdown' stream error.
	ErrSystemShutdown = newStreamError("system-shutdown")

	// ErrInternalServerError represents 'internal-server-error' stream error.
	ErrInternalServerError = newStreamError("internal-server-error")
)

func newStreamError(reason string) *Error {
	return &Error{reason: reason}
}

// Reason returns the defined condition name of the stream error.
func (se *Error) Reason() string {
	return se.reason
}

// Element returns the XML representation of the stream error.
func (se *Error) Element() *xmpp.Element {
	ret := xmpp.NewElementName("stream:error")
	ret.AppendElement(xmpp.NewElementNamespace(se.reason, streamsNamespace))
	return ret
}

func (se *Error) Error() string {
	return se.reason
}

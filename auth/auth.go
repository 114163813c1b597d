/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package auth

import (
	"context"

	"github.com/ortuman/c2sgate/xmpp"
)

// Namespace represents the SASL XML namespace.
const Namespace = "urn:ietf:params:xml:ns:xmpp-sasl"

// Authenticator defines a generic authenticator.
type Authenticator interface {
	// Namespace returns the XML namespace claimed by the authenticator.
	Namespace() string

	// Mechanisms returns the ordered list of supported mechanism names.
	Mechanisms() []string

	// Process processes an incoming 'auth' element
	// returning the authenticated account name.
	Process(ctx context.Context, elem xmpp.XElement) (string, error)
}

// SASLError represents specific SASL error type.
type SASLError struct {
	reason string
}

func newSASLError(reason string) error {
	return &SASLError{reason}
}

// Reason returns SASL error condition name.
func (se *SASLError) Reason() string {
	return se.reason
}

// Element returns SASL error XML representation.
func (se *SASLError) Element() xmpp.XElement {
	return xmpp.NewElementNamespace("failure", Namespace).
		AppendElement(xmpp.NewElementName(se.reason))
}

// Error satisfies error interface.
func (se *SASLError) Error() string {
	return se.reason
}

var (
	// ErrSASLIncorrectEncoding represents a 'incorrect-encoding' authentication error.
	ErrSASLIncorrectEncoding = newSASLError("incorrect-encoding")

	// ErrSASLInvalidMechanism represents a 'invalid-mechanism' authentication error.
	ErrSASLInvalidMechanism = newSASLError("invalid-mechanism")

	// ErrSASLMalformedRequest represents a 'malformed-request' authentication error.
	ErrSASLMalformedRequest = newSASLError("malformed-request")

	// ErrSASLNotAuthorized represents a 'not-authorized' authentication error.
	ErrSASLNotAuthorized = newSASLError("not-authorized")

	// ErrSASLTemporaryAuthFailure represents a 'temporary-auth-failure' authentication error.
	ErrSASLTemporaryAuthFailure = newSASLError("temporary-auth-failure")
)

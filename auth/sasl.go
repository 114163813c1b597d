/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/ortuman/c2sgate/xmpp"
)

type mechanism interface {
	Mechanism() string
	Authenticate(ctx context.Context, initialResponse string) (string, error)
}

// SASL represents a SASL authenticator dispatching every 'auth' element
// to the mechanism named by its 'mechanism' attribute.
type SASL struct {
	mechs []mechanism
}

// New returns a SASL authenticator offering the given mechanisms, in order.
func New(mechanisms []string, v Validator) (*SASL, error) {
	s := &SASL{}
	for _, name := range mechanisms {
		switch strings.ToLower(name) {
		case "plain":
			s.mechs = append(s.mechs, NewPlain(v))
		default:
			return nil, fmt.Errorf("auth: unsupported sasl mechanism: %s", name)
		}
	}
	if len(s.mechs) == 0 {
		return nil, fmt.Errorf("auth: no sasl mechanisms configured")
	}
	return s, nil
}

// Namespace returns SASL namespace.
func (s *SASL) Namespace() string {
	return Namespace
}

// Mechanisms returns supported mechanism names.
func (s *SASL) Mechanisms() []string {
	ret := make([]string, 0, len(s.mechs))
	for _, m := range s.mechs {
		ret = append(ret, m.Mechanism())
	}
	return ret
}

// Process authenticates an 'auth' element.
func (s *SASL) Process(ctx context.Context, elem xmpp.XElement) (string, error) {
	if elem.Namespace() != Namespace {
		return "", ErrSASLMalformedRequest
	}
	mechName := elem.Attributes().Get("mechanism")
	for _, m := range s.mechs {
		if m.Mechanism() == mechName {
			return m.Authenticate(ctx, elem.Text())
		}
	}
	return "", ErrSASLInvalidMechanism
}

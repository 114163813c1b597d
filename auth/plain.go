/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package auth

import (
	"bytes"
	"context"
	"encoding/base64"

	"github.com/ortuman/c2sgate/log"
)

// Plain represents a PLAIN authenticator mechanism.
type Plain struct {
	v Validator
}

// NewPlain returns a new PLAIN mechanism validating credentials against v.
func NewPlain(v Validator) *Plain {
	return &Plain{v: v}
}

// Mechanism returns authenticator mechanism name.
func (p *Plain) Mechanism() string {
	return "PLAIN"
}

// Authenticate decodes an initial response and validates the enclosed credentials.
func (p *Plain) Authenticate(ctx context.Context, initialResponse string) (string, error) {
	if len(initialResponse) == 0 {
		return "", ErrSASLMalformedRequest
	}
	b, err := base64.StdEncoding.DecodeString(initialResponse)
	if err != nil {
		return "", ErrSASLIncorrectEncoding
	}
	s := bytes.Split(b, []byte{0})
	if len(s) != 3 {
		return "", ErrSASLIncorrectEncoding
	}
	username := string(s[1])
	password := string(s[2])
	if len(username) == 0 {
		return "", ErrSASLNotAuthorized
	}

	// validate user and password
	ok, err := p.v.Validate(ctx, username, password)
	if err != nil {
		log.Errorf("plain: couldn't validate %s credentials: %v", username, err)
		return "", ErrSASLTemporaryAuthFailure
	}
	if !ok {
		return "", ErrSASLNotAuthorized
	}
	return username, nil
}

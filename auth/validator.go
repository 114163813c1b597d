/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package auth

import (
	"context"

	"github.com/ortuman/c2sgate/storage/repository"
)

// Validator checks user credentials.
type Validator interface {
	Validate(ctx context.Context, username, password string) (bool, error)
}

type storageValidator struct {
	rep repository.User
}

// NewStorageValidator returns a validator that matches passwords against stored user hashes.
func NewStorageValidator(rep repository.User) Validator {
	return &storageValidator{rep: rep}
}

func (v *storageValidator) Validate(ctx context.Context, username, password string) (bool, error) {
	usr, err := v.rep.FetchUser(ctx, username)
	if err != nil {
		return false, err
	}
	if usr == nil {
		return false, nil
	}
	return usr.CheckPassword(password), nil
}

type allowAll struct{}

// AllowAll is a validator accepting any credentials.
var AllowAll Validator = allowAll{}

func (allowAll) Validate(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

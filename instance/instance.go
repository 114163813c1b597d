/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

// Package instance identifies the running server process.
package instance

import (
	"os"
	"sync"

	"github.com/google/uuid"
)

const envInstanceID = "C2SGATE_INSTANCE_ID"

var (
	once   sync.Once
	instID string
)

// ID returns local instance identifier.
// It is read from the C2SGATE_INSTANCE_ID environment variable, or randomly generated otherwise.
func ID() string {
	once.Do(func() {
		id := os.Getenv(envInstanceID)
		if len(id) == 0 {
			id = uuid.New().String() // if unspecified, assign UUID identifier
		}
		instID = id
	})
	return instID
}

/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package jid

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ortuman/c2sgate/pool"
)

const (
	maxPartSize       = 1024
	maxHostnameLength = 255
)

var bufPool = pool.NewBufferPool()

var hostnameRegExp = regexp.MustCompile(
	`^(([a-zA-Z0-9]|[a-zA-Z][a-zA-Z0-9\-]*[a-zA-Z0-9])\.)*([A-Za-z]|[A-Za-z][A-Za-z0-9\-]*[A-Za-z0-9])$`,
)

// FormatError is returned when a JID, or one of its parts, is malformed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("jid: malformed %q: %s", e.Input, e.Reason)
}

// AttributeError is returned when accessing a JID part that is not present.
type AttributeError struct {
	Attribute string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("jid: lacks a %s part", e.Attribute)
}

// JID represents an XMPP address (JID).
// A JID is made up of a local part (generally a username), a domain, and a resource.
// Local and resource parts are optional; domain is required.
// Values are immutable once constructed.
type JID struct {
	local    string
	domain   string
	resource string
}

// New constructs a JID given a local, domain, and resource part, validating the result.
func New(local, domain, resource string) (*JID, error) {
	j := &JID{local: local, domain: domain, resource: resource}
	if err := j.Check(); err != nil {
		return nil, err
	}
	return j, nil
}

// Parse constructs a JID from its string representation.
//
// The input is split once on '@' to obtain the local part and once on '/'
// to obtain domain and resource.
func Parse(str string) (*JID, error) {
	var local, domain, resource string

	rest := str
	if i := strings.IndexByte(rest, '@'); i != -1 {
		local = rest[:i]
		if len(local) == 0 {
			return nil, &FormatError{Input: str, Reason: "empty local part"}
		}
		rest = rest[i+1:]
	}
	if i := strings.IndexByte(rest, '/'); i != -1 {
		resource = rest[i+1:]
		if len(resource) == 0 {
			return nil, &FormatError{Input: str, Reason: "empty resource part"}
		}
		rest = rest[:i]
	}
	domain = rest

	j := &JID{local: local, domain: domain, resource: resource}
	if err := j.Check(); err != nil {
		return nil, err
	}
	return j, nil
}

// Local returns the local part of the JID.
func (j *JID) Local() string {
	return j.local
}

// Domain returns the domain part of the JID.
func (j *JID) Domain() string {
	return j.domain
}

// Resource returns the resource part of the JID.
func (j *JID) Resource() string {
	return j.resource
}

// IsBare returns true if the JID carries local and domain parts only.
func (j *JID) IsBare() bool {
	return len(j.local) > 0 && len(j.resource) == 0
}

// IsFull returns true if the JID carries a resource part.
func (j *JID) IsFull() bool {
	return len(j.resource) > 0
}

// Bare returns the local@domain form of the JID.
func (j *JID) Bare() (*JID, error) {
	if len(j.local) == 0 {
		return nil, &AttributeError{Attribute: "local"}
	}
	return &JID{local: j.local, domain: j.domain}, nil
}

// WithResource returns a copy of the JID with its resource part replaced.
// The resulting JID is validated again.
func (j *JID) WithResource(resource string) (*JID, error) {
	return New(j.local, j.domain, resource)
}

// Validate reports whether the JID is well formed.
func (j *JID) Validate() bool {
	return j.Check() == nil
}

// Check validates the JID returning a descriptive error on failure.
func (j *JID) Check() error {
	if err := checkDomain(j.domain); err != nil {
		return &FormatError{Input: j.String(), Reason: err.Error()}
	}
	if len(j.local) > 0 {
		if len(j.local) > maxPartSize {
			return &FormatError{Input: j.String(), Reason: "local part too long"}
		}
		if !utf8.ValidString(j.local) {
			return &FormatError{Input: j.String(), Reason: "local part is not valid UTF-8"}
		}
		for _, r := range j.local {
			if !isLocalRune(r) {
				return &FormatError{Input: j.String(), Reason: fmt.Sprintf("malformed local part: %U not allowed", r)}
			}
		}
	}
	if len(j.resource) > 0 {
		if len(j.resource) > maxPartSize {
			return &FormatError{Input: j.String(), Reason: "resource part too long"}
		}
		if !utf8.ValidString(j.resource) {
			return &FormatError{Input: j.String(), Reason: "resource is not valid UTF-8"}
		}
		for _, r := range j.resource {
			if !isResourceRune(r) {
				return &FormatError{Input: j.String(), Reason: fmt.Sprintf("malformed resource: %U not allowed", r)}
			}
		}
	}
	return nil
}

// Equal reports whether two JIDs are the same.
// Comparison is case-sensitive over all three parts.
func (j *JID) Equal(other *JID) bool {
	if j == nil || other == nil {
		return j == other
	}
	return j.local == other.local && j.domain == other.domain && j.resource == other.resource
}

// String returns a string representation of the JID.
func (j *JID) String() string {
	buf := bufPool.Get()
	defer bufPool.Put(buf)
	if len(j.local) > 0 {
		buf.WriteString(j.local)
		buf.WriteByte('@')
	}
	buf.WriteString(j.domain)
	if len(j.resource) > 0 {
		buf.WriteByte('/')
		buf.WriteString(j.resource)
	}
	return buf.String()
}

func checkDomain(domain string) error {
	if len(domain) == 0 {
		return fmt.Errorf("a domain is required")
	}
	if strings.IndexByte(domain, '.') > 0 {
		if isIPLiteral(domain) {
			return nil
		}
		if len(domain) > maxHostnameLength || !hostnameRegExp.MatchString(domain) {
			return fmt.Errorf("malformed domain")
		}
		return nil
	}
	if len(domain) > maxPartSize {
		return fmt.Errorf("domain too long")
	}
	return nil
}

func isIPLiteral(domain string) bool {
	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		domain = domain[1 : len(domain)-1]
	}
	return net.ParseIP(domain) != nil
}

func isLocalRune(r rune) bool {
	switch {
	case r == 0x21, r == 0x3B, r == 0x3D, r == 0x3F:
		return true
	case r >= 0x23 && r <= 0x25:
		return true
	case r >= 0x28 && r <= 0x2E:
		return true
	case r >= 0x30 && r <= 0x39:
		return true
	case r >= 0x41 && r <= 0x7E:
		return true
	case r >= 0x80 && r <= 0xD7FF:
		return true
	}
	return isAstralOrUpperBMP(r)
}

func isResourceRune(r rune) bool {
	if r >= 0x20 && r <= 0xD7FF {
		return true
	}
	return isAstralOrUpperBMP(r)
}

func isAstralOrUpperBMP(r rune) bool {
	return (r >= 0xE000 && r <= 0xFFFD) || (r >= 0x10000 && r <= 0x10FFFF)
}

// Package id generates URL-safe identifiers for owned card instances.
//
// Identifiers are UUIDv4 bytes encoded as base32 (RFC 4648) with no padding:
// 26 lowercase characters, safe for URLs and file paths.
package id

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a fresh 26-character identifier.
func NewID() string {
	u := uuid.New()
	return strings.ToLower(encoding.EncodeToString(u[:]))
}

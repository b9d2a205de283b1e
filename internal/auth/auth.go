// Package auth provides the capability gate consulted before the secure
// prediction path. The core scoring pipeline never sees the credential.
package auth

import (
	"context"
	"crypto/subtle"
)

// Authorizer answers whether a presented token grants access.
type Authorizer interface {
	Authorize(ctx context.Context, token string) bool
}

// StaticToken authorizes requests bearing a fixed secret configured at
// startup. An empty secret denies everything, disabling the secure path.
type StaticToken struct {
	secret []byte
}

// NewStaticToken creates a StaticToken gate.
func NewStaticToken(secret string) *StaticToken {
	return &StaticToken{secret: []byte(secret)}
}

// Authorize compares the token against the secret in constant time.
func (a *StaticToken) Authorize(_ context.Context, token string) bool {
	if len(a.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(a.secret, []byte(token)) == 1
}

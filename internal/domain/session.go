package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Session is the persisted authentication record. Only these three fields are ever stored.
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// ClearedSession returns the logged-out record.
func ClearedSession() Session {
	return Session{}
}

// NewSession builds an authenticated record for a user admitted under the permitted role.
func NewSession(u User, token string) Session {
	return Session{User: &u, Token: token, IsAuthenticated: true}
}

// Valid reports whether IsAuthenticated agrees with the presence of user, token and permitted role.
func (s Session) Valid(permitted Role) bool {
	return s.ValidFor(AccessPolicy{Role: permitted})
}

// ValidFor is Valid under a full access policy.
func (s Session) ValidFor(p AccessPolicy) bool {
	holds := s.User != nil && strings.TrimSpace(s.Token) != "" && p.Admits(s.User)
	return s.IsAuthenticated == holds
}

// HasToken reports whether a bearer token is held.
func (s Session) HasToken() bool {
	return strings.TrimSpace(s.Token) != ""
}

// RiderID returns the user id or "" for anonymous sessions.
func (s Session) RiderID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// CacheScope namespaces server-side cached reads: the rider id plus a fingerprint of the
// bearer token, so a record carrying another token never sees reads fetched with this one.
// Anonymous or tokenless records have no scope.
func (s Session) CacheScope() string {
	if s.User == nil || !s.HasToken() {
		return ""
	}
	sum := sha256.Sum256([]byte(s.Token))
	return s.User.ID + ScopeSeparator + hex.EncodeToString(sum[:8])
}

// ScopeSeparator joins the rider id and the token fingerprint inside a cache scope.
const ScopeSeparator = "#"

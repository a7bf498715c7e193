package domain

import (
	"encoding/json"
	"strings"
)

// Role is the account role reported by the rider API.
type Role string

// RoleRider is the only role allowed to use this client.
const RoleRider Role = "rider"

// User is the authenticated account as returned by /auth/google and /auth/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON accepts both "id" and the document-store "_id".
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// Is reports whether the role matches r, ignoring case and surrounding spaces.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), strings.TrimSpace(string(other)))
}

// AccessPolicy decides which accounts may hold an authenticated session: the permitted role,
// plus accounts whose email is explicitly listed.
type AccessPolicy struct {
	Role         Role
	BypassEmails []string
}

// Admits reports whether u may be authenticated.
func (p AccessPolicy) Admits(u *User) bool {
	if u == nil {
		return false
	}
	if u.Role.Is(p.Role) {
		return true
	}
	email := strings.TrimSpace(u.Email)
	for _, e := range p.BypassEmails {
		if email != "" && strings.EqualFold(email, strings.TrimSpace(e)) {
			return true
		}
	}
	return false
}

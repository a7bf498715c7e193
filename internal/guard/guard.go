// Package guard decides whether a request may reach a protected page.
package guard

import (
	"net/http"
	"net/url"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/session"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Outcome is the kind of decision taken for a protected route.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	Denied
)

// Decision is the result of Decide. Location is set for Redirect only.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide allows authenticated sessions holding the permitted role, redirects anonymous ones to
// the login page with the original destination captured in "from", and denies everything else.
// Accounts admitted only through a bypass email keep their session but see the denied screen.
func Decide(s domain.Session, dest string, policy domain.AccessPolicy) Decision {
	if !s.IsAuthenticated {
		return Decision{Outcome: Redirect, Location: LoginURL(dest)}
	}
	if !policy.Admits(s.User) || !s.User.Role.Is(policy.Role) {
		return Decision{Outcome: Denied}
	}
	return Decision{Outcome: Allow}
}

// LoginURL returns the login location remembering dest.
func LoginURL(dest string) string {
	if dest == "" || dest == LoginPath {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(dest)
}

// Destination returns the path and query of r as captured in the "from" parameter.
func Destination(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}

// Require is the chi middleware form of Decide. Requests without a session handle are treated
// as anonymous. denied renders the access denied screen.
func Require(policy domain.AccessPolicy, denied http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s domain.Session
			if h := session.FromContext(r.Context()); h != nil {
				s = h.Session()
			}

			d := Decide(s, Destination(r), policy)
			switch d.Outcome {
			case Redirect:
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
			case Denied:
				denied.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

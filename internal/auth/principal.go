// Package auth carries the authenticated principal through request contexts.
//
// Authentication itself (sessions, passwords) happens upstream; this package
// only models the resulting actor. The two login classes are distinguished by
// the Kind discriminant, never by type inspection.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// Kind discriminates the two login classes.
type Kind string

const (
	// Staff is an administrative user with full access.
	Staff Kind = "staff"
	// Member is a desbravador with access to the member-facing pages.
	Member Kind = "member"
)

// Principal is the authenticated actor performing an operation. The zero
// value is anonymous.
type Principal struct {
	Kind Kind
	ID   int64
	Name string
}

// Valid reports whether the principal carries a known kind.
func (p Principal) Valid() bool {
	return p.Kind == Staff || p.Kind == Member
}

// IsStaff reports whether the principal is an administrative user.
func (p Principal) IsStaff() bool {
	return p.Kind == Staff
}

type contextKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext extracts the principal from ctx. The second return is false
// for anonymous requests.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok && p.Valid()
}

// Header names populated by the upstream authentication layer.
const (
	HeaderKind = "X-Principal-Kind"
	HeaderID   = "X-Principal-Id"
	HeaderName = "X-Principal-Name"
)

// FromRequest builds a principal from the upstream-auth headers. Requests
// without a recognized kind stay anonymous.
func FromRequest(r *http.Request) (Principal, bool) {
	kind := Kind(r.Header.Get(HeaderKind))
	if kind != Staff && kind != Member {
		return Principal{}, false
	}
	id, _ := strconv.ParseInt(r.Header.Get(HeaderID), 10, 64)
	return Principal{
		Kind: kind,
		ID:   id,
		Name: r.Header.Get(HeaderName),
	}, true
}

// Middleware attaches the request's principal, if any, to the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := FromRequest(r); ok {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff guards staff-only routes: 401 without a principal, 403 for a
// member principal.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok {
			deny(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !p.IsStaff() {
			deny(w, http.StatusForbidden, "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}

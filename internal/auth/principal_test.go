package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrincipalContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Fatal("empty context should have no principal")
	}

	p := Principal{Kind: Staff, ID: 1, Name: "Diretor"}
	got, ok := FromContext(WithPrincipal(ctx, p))
	if !ok || got != p {
		t.Fatalf("got %+v, ok=%v", got, ok)
	}
}

func TestFromRequest(t *testing.T) {
	cases := []struct {
		kind string
		ok   bool
		want Kind
	}{
		{"staff", true, Staff},
		{"member", true, Member},
		{"", false, ""},
		{"admin", false, ""}, // unknown kinds stay anonymous
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.kind != "" {
			r.Header.Set(HeaderKind, tc.kind)
			r.Header.Set(HeaderID, "42")
			r.Header.Set(HeaderName, "Ana")
		}
		p, ok := FromRequest(r)
		if ok != tc.ok {
			t.Fatalf("kind %q: ok = %v, want %v", tc.kind, ok, tc.ok)
		}
		if ok && (p.Kind != tc.want || p.ID != 42 || p.Name != "Ana") {
			t.Fatalf("kind %q: principal = %+v", tc.kind, p)
		}
	}
}

func TestRequireStaff(t *testing.T) {
	handler := RequireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name      string
		principal *Principal
		want      int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &Principal{Kind: Member, ID: 7}, http.StatusForbidden},
		{"staff", &Principal{Kind: Staff, ID: 1}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.principal != nil {
				r = r.WithContext(WithPrincipal(r.Context(), *tc.principal))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"clementus360/task-manager/types"
)

type stubValidator struct {
	tokens map[string]types.User
}

func (s stubValidator) ValidateToken(token string) (types.User, error) {
	u, ok := s.tokens[token]
	if !ok {
		return types.User{}, errors.New("unknown token")
	}
	return u, nil
}

func TestAuthMiddleware(t *testing.T) {
	validator := stubValidator{tokens: map[string]types.User{"good": {ID: "u1", Email: "a@example.com"}}}

	var gotUser types.User
	var gotToken string
	h := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		gotToken = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if gotUser.ID != "u1" || gotToken != "good" {
		t.Errorf("context user = %+v token = %q", gotUser, gotToken)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"), mark("c"))(okHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(order, ","); got != "a,b,c" {
		t.Errorf("order = %s", got)
	}
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	cases := []struct {
		name    string
		remote  string
		forward string
		trusted []netip.Prefix
		want    string
	}{
		{name: "direct", remote: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "ipv6", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded from untrusted peer", remote: "192.0.2.1:5555", forward: "203.0.113.9", want: "192.0.2.1"},
		{name: "forwarded with no proxies configured", remote: "10.0.0.5:80", forward: "203.0.113.9", want: "10.0.0.5"},
		{name: "trusted proxy", remote: "10.0.0.5:80", forward: "203.0.113.9", trusted: proxies, want: "203.0.113.9"},
		{name: "rightmost untrusted hop", remote: "10.0.0.5:80", forward: "198.51.100.1, 203.0.113.9, 10.0.0.2", trusted: proxies, want: "203.0.113.9"},
		{name: "all hops trusted", remote: "10.0.0.5:80", forward: "10.0.0.3, 10.0.0.2", trusted: proxies, want: "10.0.0.3"},
		{name: "trusted proxy without header", remote: "10.0.0.5:80", trusted: proxies, want: "10.0.0.5"},
		{name: "garbage hop stops the walk", remote: "10.0.0.5:80", forward: "203.0.113.9, unknown", trusted: proxies, want: "10.0.0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.forward != "" {
				req.Header.Set("X-Forwarded-For", tc.forward)
			}
			if got := clientIP(req, tc.trusted); got != tc.want {
				t.Errorf("clientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

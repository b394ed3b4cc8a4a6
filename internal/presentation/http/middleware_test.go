package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	proxies, err := parseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.1 "})
	if err != nil {
		t.Fatalf("parseTrustedProxies returned error: %v", err)
	}
	srv := &Server{trustedProxies: proxies}

	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{name: "direct", remoteAddr: "203.0.113.5:4000", want: "203.0.113.5"},
		{name: "untrusted peer ignores headers", remoteAddr: "203.0.113.5:4000", forwarded: "198.51.100.1", realIP: "198.51.100.2", want: "203.0.113.5"},
		{name: "trusted peer", remoteAddr: "192.0.2.1:4000", forwarded: "198.51.100.1", want: "198.51.100.1"},
		{name: "rightmost untrusted hop", remoteAddr: "192.0.2.1:4000", forwarded: "1.1.1.1, 198.51.100.1, 10.1.2.3", want: "198.51.100.1"},
		{name: "malformed hop falls back to peer", remoteAddr: "192.0.2.1:4000", forwarded: "unknown", want: "192.0.2.1"},
		{name: "real ip from trusted peer", remoteAddr: "10.0.0.9:4000", realIP: "198.51.100.3", want: "198.51.100.3"},
		{name: "no port", remoteAddr: "203.0.113.9", want: "203.0.113.9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(stdhttp.MethodPost, loginPath, nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}

			if got := srv.clientIP(req); got != tc.want {
				t.Fatalf("clientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseTrustedProxiesRejectsHostnames(t *testing.T) {
	t.Parallel()

	if _, err := parseTrustedProxies([]string{"proxy.internal"}); err == nil {
		t.Fatalf("expected error for hostname, got nil")
	}
}

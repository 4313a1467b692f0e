package config

import (
	"strings"
	"testing"
)

func TestBaseURL(t *testing.T) {
	cases := []struct {
		name     string
		settings Settings
		expected string
	}{
		{
			name:     "tls forces https",
			settings: Settings{Protocol: "http", Domain: "example.com", Port: 3000, TLSCert: "crt", TLSKey: "key"},
			expected: "https://example.com:3000/",
		},
		{
			name:     "standard http port omitted",
			settings: Settings{Protocol: "http", Domain: "example.com", Port: 80},
			expected: "http://example.com/",
		},
		{
			name:     "standard https port omitted",
			settings: Settings{Protocol: "https", Domain: "example.com", Port: 443},
			expected: "https://example.com/",
		},
		{
			name:     "tls on 443",
			settings: Settings{Protocol: "http", Domain: "example.com", Port: 443, TLSCert: "crt", TLSKey: "key"},
			expected: "https://example.com/",
		},
		{
			name:     "cert without key keeps protocol",
			settings: Settings{Protocol: "http", Domain: "example.com", Port: 8080, TLSCert: "crt"},
			expected: "http://example.com:8080/",
		},
		{
			name:     "custom protocol",
			settings: Settings{Protocol: "ws", Domain: "localhost", Port: 3000},
			expected: "ws://localhost:3000/",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.settings.BaseURL()
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
			if again := tc.settings.BaseURL(); again != got {
				t.Fatalf("expected idempotent result, got %s then %s", got, again)
			}
			if !strings.HasSuffix(got, "/") || strings.HasSuffix(got, "//") {
				t.Fatalf("expected exactly one trailing slash, got %s", got)
			}
		})
	}
}

func TestPublicView(t *testing.T) {
	s := Settings{
		Version:               "1.0.0",
		Protocol:              "http",
		Domain:                "example.com",
		Port:                  80,
		AESSecret:             "secret",
		APIWebSocketURL:       "wss://example.com",
		AllowUserRegistration: true,
	}

	pub := s.Public()
	if pub.BaseURL != "http://example.com/" {
		t.Fatalf("expected base url http://example.com/, got %s", pub.BaseURL)
	}
	if pub.Version != "1.0.0" || pub.APIWebSocketURL != "wss://example.com" || !pub.AllowUserRegistration {
		t.Fatalf("unexpected public settings: %+v", pub)
	}
}

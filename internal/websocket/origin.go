package websocket

import (
	"net/http"
	"net/url"
	"strings"

	"chat-relay/pkg/logger"
)

// CheckOrigin builds an upgrader origin check from an allowlist. "*" allows
// any origin. Requests without an Origin header (non-browser clients) pass.
func CheckOrigin(allowed []string) func(r *http.Request) bool {
	allowAll := false
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
			continue
		}
		if normalized, ok := normalizeOrigin(origin); ok {
			origins[normalized] = struct{}{}
		} else if origin != "" {
			logger.Warn("Ignoring invalid origin in configuration: %q", origin)
		}
	}

	return func(r *http.Request) bool {
		header := r.Header.Get("Origin")
		if header == "" || allowAll {
			return true
		}
		normalized, ok := normalizeOrigin(header)
		if ok {
			if _, exists := origins[normalized]; exists {
				return true
			}
		}
		logger.Warn("Blocked WebSocket connection from disallowed origin: %q", header)
		return false
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

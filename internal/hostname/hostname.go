package hostname

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Extract returns the lowercased ASCII host of raw, which may be a URL
// ("https://user@www.example.com:8443/path") or a bare host. The port, the
// userinfo and a trailing root dot are dropped.
func Extract(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty host")
	}
	host := raw
	if strings.Contains(raw, "://") {
		uri, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("parse url: %w", err)
		}
		host = uri.Hostname()
	} else {
		if idx := strings.IndexAny(host, "/?#"); idx >= 0 {
			host = host[:idx]
		}
		if idx := strings.LastIndexByte(host, '@'); idx >= 0 {
			host = host[idx+1:]
		}
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
	}
	host = strings.Trim(host, "[]")
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return "", fmt.Errorf("no host in %q", raw)
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("convert host to ascii: %w", err)
	}
	return strings.ToLower(ascii), nil
}

// Normalize is Extract without the error, falling back to the trimmed,
// lowercased input.
func Normalize(raw string) string {
	host, err := Extract(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), "."))
	}
	return host
}

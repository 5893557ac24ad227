package utils

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller's IP: the first entry of X-Forwarded-For when
// the request came through a proxy, otherwise the socket address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

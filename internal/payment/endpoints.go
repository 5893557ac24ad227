package payment

import (
	"net"
	"net/http"
)

// Endpoint describes a provider callback location. Origin-based endpoints
// point at the storefront; the notify endpoint is derived from the request's
// own URL because the provider must be able to reach it from outside.
type Endpoint struct {
	Path      string
	UseOrigin bool
}

var (
	EndpointReturn = Endpoint{Path: "/alipay/return", UseOrigin: true}
	EndpointQuit   = Endpoint{Path: "/alipay/quit", UseOrigin: true}
	EndpointRisk   = Endpoint{Path: "/alipay/risk", UseOrigin: true}
	EndpointNotify = Endpoint{Path: "/api/v1/checkout/alipay/notify", UseOrigin: false}
)

// CallbackURL synthesizes the callback address for an endpoint from the
// inbound request. Explicitly configured absolute URLs are resolved by the
// caller before falling back here.
func CallbackURL(r *http.Request, ep Endpoint) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	if !ep.UseOrigin {
		return scheme + "://" + r.Host + ep.Path
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		host, port, err := net.SplitHostPort(r.Host)
		if err != nil || port == "80" || port == "443" {
			if err != nil {
				host = r.Host
			}
			origin = scheme + "://" + host
		} else {
			origin = scheme + "://" + host + ":" + port
		}
	}
	return origin + ep.Path
}

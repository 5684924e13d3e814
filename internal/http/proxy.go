package http

import (
	"net/http"
)

// newTransport returns a transport that honors HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func newTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = http.ProxyFromEnvironment
	return t
}

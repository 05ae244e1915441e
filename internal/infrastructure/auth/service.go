package auth

import (
	"crypto/subtle"
	"net/http"
)

// ServiceTokenHeader carries the shared secret of trusted backend callers.
const ServiceTokenHeader = "X-Service-Token"

// IsService reports whether r presents the configured service token. An empty
// token disables service access.
func IsService(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	got := r.Header.Get(ServiceTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/imyme/ai-server/internal/api/shared"
	"github.com/imyme/ai-server/internal/domain"
)

// SecretHeader is the header internal callers authenticate with.
const SecretHeader = "x-internal-secret"

// exemptPaths are reachable without the secret: probes and scrapers.
var exemptPaths = map[string]bool{
	"/":        true,
	"/health":  true,
	"/metrics": true,
}

// InternalAuth gates every non-exempt path behind a shared-secret header.
// An empty configured secret disables the check entirely.
func InternalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || exemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				shared.RespondError(w, r, http.StatusForbidden,
					domain.CodeAuthError, "Access denied: invalid internal secret", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

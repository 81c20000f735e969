package auth

import (
	"net/http"
)

// Authenticator guards admin endpoints. It accepts either the plain legacy
// admin key (compared in constant time) or any key matching one of the
// configured bcrypt hashes.
type Authenticator struct {
	legacyAdminKey string
	keyHashes      []string
}

// NewAuthenticator creates an Authenticator. Either argument may be empty;
// a request is admitted when any configured credential matches.
func NewAuthenticator(legacyAdminKey string, keyHashes []string) *Authenticator {
	return &Authenticator{
		legacyAdminKey: legacyAdminKey,
		keyHashes:      keyHashes,
	}
}

// Authenticate checks an Authorization header value.
func (a *Authenticator) Authenticate(authHeader string) bool {
	token := ExtractBearerToken(authHeader)
	if token == "" {
		return false
	}

	if a.legacyAdminKey != "" && VerifyAPIKeyConstantTime(token, a.legacyAdminKey) {
		return true
	}

	// bcrypt hashes are non-deterministic, so each configured hash has to
	// be checked in turn.
	for _, hash := range a.keyHashes {
		if VerifyAPIKey(token, hash) {
			return true
		}
	}
	return false
}

// RequireAdmin is a middleware that rejects requests lacking a valid admin
// credential.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticate(r.Header.Get("Authorization")) {
			http.Error(w, "invalid or missing api key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

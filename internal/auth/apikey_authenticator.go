package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	api "github.com/docflow/docflow/api/v1alpha1"
)

// APIKeyHeader is the header every authenticated request must carry.
const APIKeyHeader = "X-API-Key"

type APIKeyAuthenticator struct {
	secret string
}

func NewAPIKeyAuthenticator(secret string) (*APIKeyAuthenticator, error) {
	return &APIKeyAuthenticator{secret: secret}, nil
}

func (a *APIKeyAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.secret)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(api.Error{Detail: "invalid or missing API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

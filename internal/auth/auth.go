package auth

import (
	"net/http"

	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

// NewAuthenticator picks the authentication scheme. An empty secret
// disables authentication, which is only meant for local development.
func NewAuthenticator(apiKey string) (Authenticator, error) {
	if apiKey == "" {
		zap.S().Named("auth").Warn("authentication disabled: no api key configured")
		return NewNoneAuthenticator()
	}
	return NewAPIKeyAuthenticator(apiKey)
}

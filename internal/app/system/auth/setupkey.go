// Package auth provides request authentication for the privileged
// provisioning endpoints.
//
// The only protected surface is the setup API. Callers present a setup
// key in the Authorization header using the Bearer scheme:
// "Authorization: Bearer <setup-key>". The key is compared against
// either a plaintext key or a bcrypt hash from configuration; when both
// are set the hash wins.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SetupKeyAuth returns middleware that validates the provisioning setup key.
//
// Parameters:
//   - plainKey: the expected key in plaintext (from configuration)
//   - hashedKey: a bcrypt hash of the expected key; takes precedence
//     over plainKey when non-empty
//   - logger: for logging authentication failures
//
// If the presented key is invalid or missing, returns 401 Unauthorized.
// If no key is configured at all, logs a warning and rejects all requests.
func SetupKeyAuth(plainKey, hashedKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	if plainKey == "" && hashedKey == "" {
		logger.Warn("setup key not configured - all setup API requests will be rejected")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if plainKey == "" && hashedKey == "" {
				logger.Warn("setup request rejected: setup key not configured",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "Setup authentication not configured", http.StatusUnauthorized)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("setup request rejected: missing Authorization header",
					zap.String("path", r.URL.Path),
				)
				http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Expect "Bearer <setup-key>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Debug("setup request rejected: invalid Authorization format",
					zap.String("path", r.URL.Path),
				)
				http.Error(w, "Invalid Authorization format (expected: Bearer <setup-key>)", http.StatusUnauthorized)
				return
			}

			if !keyMatches(parts[1], plainKey, hashedKey) {
				logger.Warn("setup request rejected: invalid setup key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "Invalid setup key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// keyMatches compares the presented key against the configured
// credential. A bcrypt hash takes precedence over a plaintext key.
func keyMatches(presented, plainKey, hashedKey string) bool {
	if hashedKey != "" {
		return bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(plainKey)) == 1
}

// HashSetupKey produces a bcrypt hash of a setup key suitable for the
// setup_key_hash configuration value.
func HashSetupKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

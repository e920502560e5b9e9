package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"coverledger/pkg/requestcontext"
)

// JWTValidator validates a bearer token and yields the caller identity it
// asserts. The identity is opaque to the ledger; it only has to be stable
// per party.
type JWTValidator interface {
	Validate(token string) (subject string, err error)
}

// HMACValidator validates HS256-signed tokens.
type HMACValidator struct {
	key []byte
}

func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{key: []byte(signingKey)}
}

func (v *HMACValidator) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// SignSubject mints an HS256 token for the given subject. Used by tests and
// local tooling; production callers bring their own tokens.
func SignSubject(signingKey, subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	return token.SignedString([]byte(signingKey))
}

// RequireAuth rejects requests without a valid bearer token and injects the
// asserted caller identity into the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			subject, err := validator.Validate(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected bearer token", "error", err.Error())
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}
			ctx := requestcontext.WithCallerID(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

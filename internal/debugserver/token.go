package debugserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "packrat-debugserver"

// issueSessionToken signs a short-lived HS512 JWT identifying one debug
// session, keyed by a fresh UUID rather than any durable user identity
// (this server has none).
func issueSessionToken(secret []byte) (string, error) {
	sessionID := uuid.New()
	claims := jwt.MapClaims{
		"iss": tokenIssuer,
		"sub": sessionID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// verifySessionToken validates a bearer token's signature, issuer, and
// expiry, returning the session ID stored in its subject claim.
func verifySessionToken(tokStr string, secret []byte) (uuid.UUID, error) {
	parsed, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithLeeway(time.Minute))
	if err != nil {
		return uuid.UUID{}, err
	}
	subj, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cannot get subject: %w", err)
	}
	return uuid.Parse(subj)
}

func bearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

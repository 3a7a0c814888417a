package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for malformed, mis-signed, or otherwise
// unverifiable bearer tokens.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenIssuer signs and verifies stateless HS256 bearer tokens whose
// subject is the user ID. Tokens carry no expiry; possession of the token
// is the session.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer builds an issuer around the shared HMAC secret.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue signs a token for the given user ID.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify validates the token signature and returns the user ID it was
// issued for.
func (t *TokenIssuer) Verify(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

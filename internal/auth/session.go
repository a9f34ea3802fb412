// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sessions mints and verifies the JWT tokens the proxy hands to players for
// the room API. Keys are ed25519; the proxy plugin holds the same private
// key so both sides can mint.
type Sessions struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// ExpireSec is seconds until token expiry; 0 means no exp claim.
	ExpireSec int
}

// NewEphemeralSessions generates a fresh key pair at startup. Tokens do not
// survive a restart; fine for development and tests.
func NewEphemeralSessions() (*Sessions, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key pair: %w", err)
	}
	return &Sessions{privateKey: priv, publicKey: pub}, nil
}

// NewSessionsFromPath reads ed25519 keys from files.
func NewSessionsFromPath(privatePath, publicPath string) (*Sessions, error) {
	privateKeyData, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key file: %w", err)
	}
	publicKeyData, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key file: %w", err)
	}
	return &Sessions{
		privateKey: ed25519.PrivateKey(privateKeyData),
		publicKey:  ed25519.PublicKey(publicKeyData),
	}, nil
}

// CreateJWT creates a signed token with "sub" = userID.
func (s *Sessions) CreateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
	}
	if s.ExpireSec > 0 {
		claims["exp"] = time.Now().Add(time.Duration(s.ExpireSec) * time.Second).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.privateKey)
}

// AuthenticateJWT verifies a token string and returns its "sub" claim.
func (s *Sessions) AuthenticateJWT(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid jwt claims")
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return userID, nil
}

package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zapshots/shots-console-api/pkg/env"
)

// SessionTTL controls how long an issued session token stays valid.
var SessionTTL time.Duration

var (
	secretOnce sync.Once
	secretKey  string
)

func init() {
	// SESSION_TTL: default 24h, matching the dashboard cookie lifetime
	SessionTTL = env.GetEnvDurationOrDefault("SESSION_TTL", 24*time.Hour)
}

// jwtSecret reads JWT_SECRET_KEY on first use. Signing and validation
// fail with an explicit error when it is not configured.
func jwtSecret() string {
	secretOnce.Do(func() {
		secretKey = env.GetEnvStringOrDefault("JWT_SECRET_KEY", "")
	})
	return secretKey
}

// SessionClaims represents the claims in a dashboard session JWT.
// UpstreamKey is the credential forwarded to the messaging backend as
// the Key header on every proxied call.
type SessionClaims struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name,omitempty"`
	Permission  string `json:"permission,omitempty"`
	UpstreamKey string `json:"upstream_key"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a session JWT after a successful upstream login.
func GenerateSessionToken(userID, userName, permission, upstreamKey string) (string, error) {
	secret := jwtSecret()
	if secret == "" {
		return "", errors.New("JWT_SECRET_KEY not configured")
	}

	now := time.Now()
	claims := SessionClaims{
		UserID:      userID,
		UserName:    userName,
		Permission:  permission,
		UpstreamKey: upstreamKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken validates a session JWT and returns the claims.
func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	secret := jwtSecret()
	if secret == "" {
		return nil, errors.New("JWT_SECRET_KEY not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token claims")
}

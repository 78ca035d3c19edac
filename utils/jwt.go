package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"elanis/config"
	"elanis/models"

	"github.com/golang-jwt/jwt"
)

// TokenClaims is what the middleware extracts from a validated bearer token.
// ProviderStatus is stamped at login time and only refreshed by
// re-authentication; a freshly approved provider carries a stale value until
// they log in again.
type TokenClaims struct {
	UserID         string
	Email          string
	Role           models.Role
	ProviderStatus string
}

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT for the given user with role and
// provider-status claims. The token expires after the specified duration.
func GenerateToken(userID, email string, role models.Role, providerStatus string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  string(role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	if providerStatus != "" {
		claims["providerStatus"] = providerStatus
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string, used as the
// revocation-list key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns its claims.
func ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	providerStatus, _ := claims["providerStatus"].(string)

	return &TokenClaims{
		UserID:         sub,
		Email:          email,
		Role:           models.Role(role),
		ProviderStatus: providerStatus,
	}, nil
}

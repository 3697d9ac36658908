package supabase

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateTestJWT signs a Supabase-shaped access token for userID.
func GenerateTestJWT(userID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"aud":  "authenticated",
		"role": "authenticated",
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

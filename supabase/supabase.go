package supabase

import (
	"clementus360/task-manager/config"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/supabase-community/supabase-go"
)

// Client is the anonymous client used for identity calls and signup seeding.
var Client *supabase.Client

var (
	apiURL string
	apiKey string
)

func Init(url, key string) {
	if url == "" || key == "" {
		config.Logger.Fatal("SUPABASE_URL or SUPABASE_KEY is missing")
	}
	apiURL, apiKey = url, key

	var err error
	Client, err = supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		config.Logger.Fatal("Failed to create Supabase client: ", err)
	}
}

// ClientWithToken returns a client that acts as the bearer of jwtString, so
// row-level security applies to every query it runs.
func ClientWithToken(jwtString string) (*supabase.Client, error) {
	if jwtString == "" {
		return nil, fmt.Errorf("missing auth token")
	}
	return supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + jwtString,
		},
	})
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid Authorization header")
	}
	jwtString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if jwtString == "" {
		return "", fmt.Errorf("invalid Authorization header")
	}
	return jwtString, nil
}

// SubjectFromToken reads the sub claim without verifying the signature.
// Verification is the identity provider's job; this only rejects tokens that
// are not JWTs at all before a round trip is spent on them.
func SubjectFromToken(jwtString string) (string, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(jwtString, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("invalid JWT format")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid JWT claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing sub in token")
	}
	return sub, nil
}

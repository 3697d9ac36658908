package supabase

import (
	"clementus360/task-manager/types"
	"fmt"

	"github.com/google/uuid"
	gotypes "github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// Auth wraps the identity provider behind Supabase (GoTrue).
type Auth struct {
	client *supabase.Client
}

func NewAuth(client *supabase.Client) *Auth {
	return &Auth{client: client}
}

// SignUp registers a user. When the project requires email confirmation no
// session is issued and the returned token is empty.
func (a *Auth) SignUp(creds types.Credentials) (types.AuthResponse, error) {
	resp, err := a.client.Auth.Signup(gotypes.SignupRequest{
		Email:    creds.Email,
		Password: creds.Password,
		Data:     map[string]interface{}{"name": creds.Name},
	})
	if err != nil {
		return types.AuthResponse{}, fmt.Errorf("signup failed: %w", err)
	}

	user := resp.User
	if resp.Session.User.ID != uuid.Nil {
		user = resp.Session.User
	}
	verified := resp.AccessToken != ""

	return types.AuthResponse{
		User:          toUser(user),
		Token:         resp.AccessToken,
		EmailVerified: &verified,
	}, nil
}

func (a *Auth) SignIn(email, password string) (types.AuthResponse, error) {
	token, err := a.client.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return types.AuthResponse{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return types.AuthResponse{
		User:  toUser(token.User),
		Token: token.AccessToken,
	}, nil
}

// ValidateToken asks the identity provider who owns token.
func (a *Auth) ValidateToken(token string) (types.User, error) {
	sub, err := SubjectFromToken(token)
	if err != nil {
		return types.User{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	resp, err := a.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return types.User{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user := toUser(resp.User)
	if user.ID != sub {
		return types.User{}, fmt.Errorf("%w: subject mismatch", ErrUnauthorized)
	}
	return user, nil
}

func (a *Auth) SignOut(token string) error {
	if err := a.client.Auth.WithToken(token).Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// SeedCategories gives userID the default category set.
func (a *Auth) SeedCategories(userID string) (bool, error) {
	return SeedCategories(a.client, userID)
}

func toUser(u gotypes.User) types.User {
	name, _ := u.UserMetadata["name"].(string)
	return types.User{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  name,
	}
}

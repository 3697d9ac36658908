package types

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type AuthResponse struct {
	User          User   `json:"user"`
	Token         string `json:"token"`
	EmailVerified *bool  `json:"emailVerified,omitempty"` // only set by signup
}

package domain

import "time"

// Account is the credential record behind a profile. The password hash never
// leaves the repository layer.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile represents a community member
type Profile struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Email       string    `json:"email"`
	Nickname    string    `json:"nickname"`
	Affiliation string    `json:"affiliation"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignUpRequest is the sign-up payload
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// SignInRequest is the sign-in payload
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token and the provisioned profile
type AuthResponse struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// Identity is the authenticated caller extracted from a session token
type Identity struct {
	AccountID string
	ProfileID string
	Email     string
	IsAdmin   bool
}

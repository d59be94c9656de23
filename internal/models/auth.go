package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload. The principal itself is reloaded
// from the store on each request, so only the user id is embedded.
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// RegisterRequest is the public signup payload.
type RegisterRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Role          string `json:"role" validate:"omitempty,oneof=student etudiant formateur admin"`
	Filiere       string `json:"filiere"`
	Niveau        string `json:"niveau" validate:"omitempty,oneof=licence1 licence2 licence3"`
	StudentNumber string `json:"student_number"`
	Institute     string `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user"`
	// Message is set on registration when the account awaits identity
	// verification and no token is issued yet.
	Message string `json:"message,omitempty"`
}

// ForgotPasswordRequest initiates a reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest is the self-service profile patch. Role, institute,
// filiere and password are deliberately not part of it.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

package auth

import (
	"github.com/google/uuid"
)

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// TokenResponse is returned by every sign-in flow.
type TokenResponse struct {
	AccessToken    string     `json:"access_token"`
	TokenType      string     `json:"token_type"`
	ExpiresIn      int64      `json:"expires_in"`
	UserID         string     `json:"user_id"`
	OwnerProfileID *uuid.UUID `json:"owner_profile_id,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package dto

import "time"

// SignupRequest payload.
type SignupRequest struct {
	FullName   string `json:"fullname"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Ward       string `json:"ward"`
	Department string `json:"department"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SessionConfirmRequest carries the one-time code that promotes a staged
// login to an active session.
type SessionConfirmRequest struct {
	OTP string `json:"otp"`
}

// ProfileUpdateRequest is the self-service account edit. Empty fields stay
// unchanged.
type ProfileUpdateRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Ward     string `json:"ward"`
}

// UserResponse is the account shape returned to clients. The password hash
// never leaves the server.
type UserResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullname"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Ward          *string   `json:"ward,omitempty"`
	Department    *string   `json:"department,omitempty"`
	ResolvedCount int       `json:"resolvedcount"`
	CreatedAt     time.Time `json:"createdat"`
}

// Package models defines data structures for Fundtrack
package models

import "time"

// User represents the authenticated account returned by /auth/me.
type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login"`
}

// TokenPair is the credential pair returned by /auth/login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// LoginRequest is the /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the /auth/register payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

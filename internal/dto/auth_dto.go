package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	JobTitle     string `json:"jobTitle"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public projection of a user; it never carries the
// password hash.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Organization *string   `json:"organization"`
	JobTitle     *string   `json:"jobTitle"`
	IsAdmin      bool      `json:"isAdmin"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type MeUser struct {
	UserResponse
	CreatedAt       time.Time `json:"createdAt"`
	AssessmentCount int64     `json:"assessmentCount"`
}

type MeResponse struct {
	User MeUser `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

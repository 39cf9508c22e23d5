package models

import (
	"time"

	"goodsgo/internal/authz"
)

type User struct {
	ID           string     `json:"userId"`
	Name         string     `json:"name"`
	Email        *string    `json:"email"`
	Role         authz.Role `json:"role"`
	PasswordHash string     `json:"-"`
	Created      time.Time  `json:"created"`
	Modified     time.Time  `json:"modified"`
	Deleted      *time.Time `json:"-"`
}

// CurrentUser is the profile resolved from the session for one request.
type CurrentUser struct {
	UserID string     `json:"userId"`
	Name   string     `json:"name"`
	Email  *string    `json:"email"`
	Role   authz.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"max=254,festival_email"`
	Password string `json:"password" validate:"min=8,max=72,alphanum"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"min=3,max=60"`
	Email           string `json:"email" validate:"max=254,festival_email"`
	Password        string `json:"password" validate:"min=8,max=72,alphanum"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

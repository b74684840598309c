package users

import (
	"time"

	"preschool/internal/auth"
)

// User is a staff or parent account. The password hash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         auth.Role `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor returns the session identity for the user.
func (u User) Actor() auth.Actor {
	return auth.Actor{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// NewUser is the admin form for creating an account.
type NewUser struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin principal teacher parent"`
	Password string `json:"password" validate:"required,min=8"`
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

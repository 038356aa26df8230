package auth

import "time"

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Verified   bool      `json:"verified"`
	EmployeeID *string   `json:"employeeId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Credentials is a user row including the password hash; never serialized.
type Credentials struct {
	User
	PasswordHash string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type UserFilter struct {
	Search string
	Role   string
	Limit  int
	Offset int
}

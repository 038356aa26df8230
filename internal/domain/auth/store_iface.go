package auth

import "context"

type StoreAPI interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (Credentials, error)
	GetUser(ctx context.Context, id string) (User, error)
	UserRole(ctx context.Context, id string) (string, error)
	UpdateRole(ctx context.Context, id, role string) (User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]User, int, error)
}

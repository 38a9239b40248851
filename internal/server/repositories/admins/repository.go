package admins

import "context"

// Admin is a reporting-view account with a bcrypt password hash.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
}

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	Create(ctx context.Context, username, passwordHash string) (*Admin, error)
	Count(ctx context.Context) (int, error)
}

package refreshtokens

import (
	"context"
	"time"
)

// Token is a stored refresh token bound to a resident session.
type Token struct {
	Token      string
	ResidentID string
	Expires    time.Time
}

type Repository interface {
	Create(ctx context.Context, token *Token) error
	Find(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
	DeleteForResident(ctx context.Context, residentID string) error
}

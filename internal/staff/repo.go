package staff

import (
	"context"

	"github.com/google/uuid"
)

type UserRepo interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername matches case-insensitively, mirroring how staff type
	// their names at the till.
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

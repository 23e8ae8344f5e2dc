package repo

import (
	"context"

	"github.com/Kavermo/StreamHive/core-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	UpdateProfile(ctx context.Context, u model.User) error

	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

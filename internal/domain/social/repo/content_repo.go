package repo

import (
	"context"

	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/google/uuid"
)

type VideoRepo interface {
	Create(ctx context.Context, v model.Video) (uuid.UUID, error)

	GetByID(ctx context.Context, id uuid.UUID) (model.Video, error)

	Update(ctx context.Context, v model.Video) error

	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Video, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type TweetRepo interface {
	Create(ctx context.Context, t model.Tweet) (uuid.UUID, error)

	GetByID(ctx context.Context, id uuid.UUID) (model.Tweet, error)

	Update(ctx context.Context, t model.Tweet) error

	Delete(ctx context.Context, id uuid.UUID) error

	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Tweet, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c model.Comment) (uuid.UUID, error)

	GetByID(ctx context.Context, id uuid.UUID) (model.Comment, error)

	Update(ctx context.Context, c model.Comment) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListByVideo returns comments with their authors' display data.
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]model.CommentView, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

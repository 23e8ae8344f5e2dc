package repo

import (
	"context"

	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/google/uuid"
)

// EdgeRepo persists relationship edges under a uniqueness constraint on
// (actor, target, kind). The constraint is the arbiter for concurrent
// toggles: Insert reports ErrAlreadyExists on a duplicate instead of
// surfacing a raw constraint violation.
type EdgeRepo interface {
	Insert(ctx context.Context, e model.Edge) error

	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, actorID, targetID uuid.UUID, kind model.TargetKind) (bool, error)

	Exists(ctx context.Context, actorID, targetID uuid.UUID, kind model.TargetKind) (bool, error)

	// CountByTarget counts edges pointing at targetID (e.g. subscribers,
	// likes on a video).
	CountByTarget(ctx context.Context, targetID uuid.UUID, kind model.TargetKind) (int64, error)

	// CountByActor counts edges originating from actorID (e.g. channels a
	// user subscribes to).
	CountByActor(ctx context.Context, actorID uuid.UUID, kind model.TargetKind) (int64, error)

	// CountByTargets returns per-target edge counts for a batch of targets
	// of one kind. Targets without edges are absent from the map.
	CountByTargets(ctx context.Context, targetIDs []uuid.UUID, kind model.TargetKind) (map[uuid.UUID]int64, error)

	// ActorSummariesByTarget lists the users whose edges point at targetID,
	// joined with their display data (subscriber listings).
	ActorSummariesByTarget(ctx context.Context, targetID uuid.UUID, kind model.TargetKind) ([]model.UserSummary, error)

	// TargetSummariesByActor lists the users actorID points at (subscribed
	// channels).
	TargetSummariesByActor(ctx context.Context, actorID uuid.UUID, kind model.TargetKind) ([]model.UserSummary, error)

	// LikedVideos lists videos the actor has a video-kind edge toward,
	// newest edge first.
	LikedVideos(ctx context.Context, actorID uuid.UUID) ([]model.Video, error)
}

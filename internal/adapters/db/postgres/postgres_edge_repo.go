package postgres

import (
	"context"

	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const edgesTable = "relationship_edges"

// PostgresEdgeRepo persists relationship edges. The composite primary key
// (actor_id, target_id, target_kind) enforces the at-most-one-edge
// invariant; concurrent duplicate inserts lose with a unique violation
// that Insert reports as ErrAlreadyExists.
type PostgresEdgeRepo struct {
	db *gorm.DB
}

func NewPostgresEdgeRepo(db *gorm.DB) *PostgresEdgeRepo {
	return &PostgresEdgeRepo{db: db}
}

func (p *PostgresEdgeRepo) Insert(ctx context.Context, e model.Edge) error {
	res := p.db.WithContext(ctx).Table(edgesTable).Create(&e)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return storeErr(err, "EdgeInsert")
	}
	return nil
}

func (p *PostgresEdgeRepo) Delete(ctx context.Context, actorID, targetID uuid.UUID, kind model.TargetKind) (bool, error) {
	res := p.db.WithContext(ctx).Table(edgesTable).
		Where("actor_id = ? AND target_id = ? AND target_kind = ?", actorID, targetID, kind).
		Delete(&model.Edge{})
	if err := res.Error; err != nil {
		return false, storeErr(err, "EdgeDelete")
	}
	return res.RowsAffected > 0, nil
}

func (p *PostgresEdgeRepo) Exists(ctx context.Context, actorID, targetID uuid.UUID, kind model.TargetKind) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Table(edgesTable).
		Where("actor_id = ? AND target_id = ? AND target_kind = ?", actorID, targetID, kind).
		Count(&n)
	if err := res.Error; err != nil {
		return false, storeErr(err, "EdgeExists")
	}
	return n > 0, nil
}

func (p *PostgresEdgeRepo) CountByTarget(ctx context.Context, targetID uuid.UUID, kind model.TargetKind) (int64, error) {
	var n int64
	res := p.db.WithContext(ctx).Table(edgesTable).
		Where("target_id = ? AND target_kind = ?", targetID, kind).
		Count(&n)
	if err := res.Error; err != nil {
		return 0, storeErr(err, "EdgeCountByTarget")
	}
	return n, nil
}

func (p *PostgresEdgeRepo) CountByActor(ctx context.Context, actorID uuid.UUID, kind model.TargetKind) (int64, error) {
	var n int64
	res := p.db.WithContext(ctx).Table(edgesTable).
		Where("actor_id = ? AND target_kind = ?", actorID, kind).
		Count(&n)
	if err := res.Error; err != nil {
		return 0, storeErr(err, "EdgeCountByActor")
	}
	return n, nil
}

func (p *PostgresEdgeRepo) CountByTargets(ctx context.Context, targetIDs []uuid.UUID, kind model.TargetKind) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		TargetID uuid.UUID
		N        int64
	}
	res := p.db.WithContext(ctx).Table(edgesTable).
		Select("target_id, COUNT(*) AS n").
		Where("target_id IN ? AND target_kind = ?", targetIDs, kind).
		Group("target_id").
		Scan(&rows)
	if err := res.Error; err != nil {
		return nil, storeErr(err, "EdgeCountByTargets")
	}
	for _, r := range rows {
		out[r.TargetID] = r.N
	}
	return out, nil
}

func (p *PostgresEdgeRepo) ActorSummariesByTarget(ctx context.Context, targetID uuid.UUID, kind model.TargetKind) ([]model.UserSummary, error) {
	var out []model.UserSummary
	res := p.db.WithContext(ctx).Table(edgesTable+" AS e").
		Select("u.id, u.full_name AS display_name, u.username AS handle, u.avatar_url").
		Joins("JOIN users u ON u.id = e.actor_id").
		Where("e.target_id = ? AND e.target_kind = ?", targetID, kind).
		Order("e.created_at DESC").
		Scan(&out)
	if err := res.Error; err != nil {
		return nil, storeErr(err, "EdgeActorSummaries")
	}
	return out, nil
}

func (p *PostgresEdgeRepo) TargetSummariesByActor(ctx context.Context, actorID uuid.UUID, kind model.TargetKind) ([]model.UserSummary, error) {
	var out []model.UserSummary
	res := p.db.WithContext(ctx).Table(edgesTable+" AS e").
		Select("u.id, u.full_name AS display_name, u.username AS handle, u.avatar_url").
		Joins("JOIN users u ON u.id = e.target_id").
		Where("e.actor_id = ? AND e.target_kind = ?", actorID, kind).
		Order("e.created_at DESC").
		Scan(&out)
	if err := res.Error; err != nil {
		return nil, storeErr(err, "EdgeTargetSummaries")
	}
	return out, nil
}

func (p *PostgresEdgeRepo) LikedVideos(ctx context.Context, actorID uuid.UUID) ([]model.Video, error) {
	var out []model.Video
	res := p.db.WithContext(ctx).Table(edgesTable+" AS e").
		Select("v.*").
		Joins("JOIN videos v ON v.id = e.target_id").
		Where("e.actor_id = ? AND e.target_kind = ?", actorID, model.KindVideo).
		Order("e.created_at DESC").
		Scan(&out)
	if err := res.Error; err != nil {
		return nil, storeErr(err, "EdgeLikedVideos")
	}
	return out, nil
}

package postgres

import (
	"context"
	"errors"

	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresCommentRepo struct {
	db *gorm.DB
}

func NewPostgresCommentRepo(db *gorm.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

func (p *PostgresCommentRepo) Create(ctx context.Context, c model.Comment) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&c)
	if err := res.Error; err != nil {
		return uuid.Nil, storeErr(err, "CommentCreate")
	}
	return c.ID, nil
}

func (p *PostgresCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	var c model.Comment
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&c)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Comment{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Comment{}, storeErr(err, "CommentGetByID")
	}
	return c, nil
}

func (p *PostgresCommentRepo) Update(ctx context.Context, c model.Comment) error {
	res := p.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", c.ID).
		Update("content", c.Content)
	if err := res.Error; err != nil {
		return storeErr(err, "CommentUpdate")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	if err := res.Error; err != nil {
		return storeErr(err, "CommentDelete")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresCommentRepo) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]model.CommentView, error) {
	var out []model.CommentView
	res := p.db.WithContext(ctx).Table("comments AS c").
		Select("c.*, u.username AS owner_handle, u.avatar_url AS owner_avatar_url").
		Joins("JOIN users u ON u.id = c.owner_id").
		Where("c.video_id = ?", videoID).
		Order("c.created_at DESC").
		Scan(&out)
	if err := res.Error; err != nil {
		return nil, storeErr(err, "CommentListByVideo")
	}
	return out, nil
}

func (p *PostgresCommentRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Count(&n)
	if err := res.Error; err != nil {
		return false, storeErr(err, "CommentExists")
	}
	return n > 0, nil
}

package postgres

import (
	"context"
	"errors"

	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresVideoRepo struct {
	db *gorm.DB
}

func NewPostgresVideoRepo(db *gorm.DB) *PostgresVideoRepo {
	return &PostgresVideoRepo{db: db}
}

func (p *PostgresVideoRepo) Create(ctx context.Context, v model.Video) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&v)
	if err := res.Error; err != nil {
		return uuid.Nil, storeErr(err, "VideoCreate")
	}
	return v.ID, nil
}

func (p *PostgresVideoRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Video, error) {
	var v model.Video
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&v)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Video{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Video{}, storeErr(err, "VideoGetByID")
	}
	return v, nil
}

func (p *PostgresVideoRepo) Update(ctx context.Context, v model.Video) error {
	res := p.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"title":         v.Title,
			"description":   v.Description,
			"thumbnail_url": v.ThumbnailURL,
		})
	if err := res.Error; err != nil {
		return storeErr(err, "VideoUpdate")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresVideoRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Video, error) {
	var out []model.Video
	res := p.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out)
	if err := res.Error; err != nil {
		return nil, storeErr(err, "VideoListByOwner")
	}
	return out, nil
}

func (p *PostgresVideoRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Count(&n)
	if err := res.Error; err != nil {
		return false, storeErr(err, "VideoExists")
	}
	return n > 0, nil
}

package postgres

import (
	"context"
	"errors"

	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresTweetRepo struct {
	db *gorm.DB
}

func NewPostgresTweetRepo(db *gorm.DB) *PostgresTweetRepo {
	return &PostgresTweetRepo{db: db}
}

func (p *PostgresTweetRepo) Create(ctx context.Context, t model.Tweet) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&t)
	if err := res.Error; err != nil {
		return uuid.Nil, storeErr(err, "TweetCreate")
	}
	return t.ID, nil
}

func (p *PostgresTweetRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Tweet, error) {
	var t model.Tweet
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&t)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Tweet{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Tweet{}, storeErr(err, "TweetGetByID")
	}
	return t, nil
}

func (p *PostgresTweetRepo) Update(ctx context.Context, t model.Tweet) error {
	res := p.db.WithContext(ctx).Model(&model.Tweet{}).
		Where("id = ?", t.ID).
		Update("content", t.Content)
	if err := res.Error; err != nil {
		return storeErr(err, "TweetUpdate")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresTweetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Tweet{})
	if err := res.Error; err != nil {
		return storeErr(err, "TweetDelete")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresTweetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Tweet, error) {
	var out []model.Tweet
	res := p.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out)
	if err := res.Error; err != nil {
		return nil, storeErr(err, "TweetListByOwner")
	}
	return out, nil
}

func (p *PostgresTweetRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Count(&n)
	if err := res.Error; err != nil {
		return false, storeErr(err, "TweetExists")
	}
	return n > 0, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/Kavermo/StreamHive/core-service/internal/domain/auth/model"
	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresUserRepo implements both repo.UserRepo and repo.SessionStore:
// the refresh-token slot is a column on the users row so rotation is a
// single conditional UPDATE and stays correct across service instances.
type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, storeErr(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, storeErr(err, "GetUserByEmail")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, storeErr(err, "GetUserByID")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("username = ?", username).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, storeErr(err, "GetUserByUsername")
	}

	return u, nil
}

func (p *PostgresUserRepo) UpdateProfile(ctx context.Context, user model.User) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"full_name":  user.FullName,
			"avatar_url": user.AvatarURL,
		})
	if err := res.Error; err != nil {
		return storeErr(err, "UpdateProfile")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

func (p *PostgresUserRepo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&n)
	if err := res.Error; err != nil {
		return false, storeErr(err, "UserExists")
	}
	return n > 0, nil
}

/* session slot */

func (p *PostgresUserRepo) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	var token string
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Pluck("current_refresh_token", &token)
	if err := res.Error; err != nil {
		return "", storeErr(err, "SessionGet")
	}
	if res.RowsAffected == 0 {
		return "", customErrors.ErrNotFound
	}
	return token, nil
}

func (p *PostgresUserRepo) Set(ctx context.Context, userID uuid.UUID, token string) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("current_refresh_token", token)
	if err := res.Error; err != nil {
		return storeErr(err, "SessionSet")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

// Rotate is the refresh compare-and-swap: the UPDATE matches only when the
// slot still holds old, so a replayed (already rotated) token affects zero
// rows and is reported as reuse.
func (p *PostgresUserRepo) Rotate(ctx context.Context, userID uuid.UUID, old, new string) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND current_refresh_token = ?", userID, old).
		Update("current_refresh_token", new)
	if err := res.Error; err != nil {
		return storeErr(err, "SessionRotate")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrTokenReuse
	}
	return nil
}

func (p *PostgresUserRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	return p.Set(ctx, userID, "")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtdomain "github.com/Kavermo/StreamHive/core-service/internal/domain/auth/jwt"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/auth/model"
	repo "github.com/Kavermo/StreamHive/core-service/internal/domain/auth/repo"
	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/config"

	"github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http/dto"
	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// LoginLimiter throttles credential checks before they reach the verifier.
type LoginLimiter interface {
	Allow(ctx context.Context, identifier, ip string) error

	Reset(ctx context.Context, identifier string) error
}

type authService struct {
	userRepo repo.UserRepo
	sessions repo.SessionStore
	tokens   jwtdomain.TokenManager
	limiter  LoginLimiter
	cfg      *config.Config
	v        *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.TokenPair, error)
	Login(ctx context.Context, in dto.LoginDTO, clientIP string) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.User, error)
}

func New(
	ur repo.UserRepo,
	ss repo.SessionStore,
	tm jwtdomain.TokenManager,
	ll LoginLimiter,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, sessions: ss, tokens: tm, limiter: ll, cfg: cfg, v: v,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := argon2id.CreateHash(in.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(in.Email),
		Username:     strings.ToLower(in.Username),
		FullName:     in.FullName,
		PasswordHash: passwordHash,
	}

	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	if _, err = a.userRepo.CreateUser(sctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.TokenPair{}, customErrors.ErrAlreadyExists
		}
		return model.TokenPair{}, err
	}

	return a.issueTokens(ctx, user.ID)
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO, clientIP string) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	email := strings.ToLower(in.Email)

	if a.limiter != nil {
		if err := a.limiter.Allow(ctx, email, clientIP); err != nil {
			return model.TokenPair{}, err
		}
	}

	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	user, err := a.userRepo.GetUserByEmail(sctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// Indistinguishable from a wrong password for the caller.
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, err
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	if a.limiter != nil {
		_ = a.limiter.Reset(ctx, email)
	}

	return a.issueTokens(ctx, user.ID)
}

// Refresh runs the rotation protocol. Checks are evaluated strictly in
// order: missing token, bad signature/expiry, unknown principal, then the
// stored-slot compare. The compare-and-swap in SessionStore.Rotate makes
// the last two steps atomic against concurrent refreshes.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	if refreshToken == "" {
		return model.TokenPair{}, customErrors.ErrUnauthenticated
	}

	claims, err := a.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	if _, err := a.userRepo.GetUserByID(sctx, uid); err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return model.TokenPair{}, customErrors.ErrInvalidToken
		}
		return model.TokenPair{}, err
	}

	pair, err := a.generatePair(uid)
	if err != nil {
		return model.TokenPair{}, err
	}

	// A started rotation must finish even if the client disconnects;
	// otherwise the slot and the delivered token could diverge.
	mctx, mcancel := a.detachedStoreCtx(ctx)
	defer mcancel()
	if err := a.sessions.Rotate(mctx, uid, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, customErrors.ErrTokenReuse) {
			return model.TokenPair{}, err
		}
		return model.TokenPair{}, fmt.Errorf("%w: rotate session: %v", customErrors.ErrIssuanceFailed, err)
	}

	return pair, nil
}

func (a *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	mctx, cancel := a.detachedStoreCtx(ctx)
	defer cancel()
	return a.sessions.Clear(mctx, userID)
}

func (a *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	sctx, cancel := a.storeCtx(ctx)
	defer cancel()
	return a.userRepo.GetUserByID(sctx, userID)
}

func (a *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, in dto.UpdateProfileDTO) (model.User, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	sctx, cancel := a.storeCtx(ctx)
	defer cancel()

	user, err := a.userRepo.GetUserByID(sctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}

	if err := a.userRepo.UpdateProfile(sctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// issueTokens mints a fresh pair and overwrites the session slot. The slot
// write is part of issuance: if the store did not durably accept the
// refresh token, no tokens are returned.
func (a *authService) issueTokens(ctx context.Context, uid uuid.UUID) (model.TokenPair, error) {
	pair, err := a.generatePair(uid)
	if err != nil {
		return model.TokenPair{}, err
	}

	mctx, cancel := a.detachedStoreCtx(ctx)
	defer cancel()
	if err := a.sessions.Set(mctx, uid, pair.RefreshToken); err != nil {
		return model.TokenPair{}, fmt.Errorf("%w: store session: %v", customErrors.ErrIssuanceFailed, err)
	}

	return pair, nil
}

func (a *authService) generatePair(uid uuid.UUID) (model.TokenPair, error) {
	at, atExp, err := a.tokens.GenerateAccessToken(uid)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, rtExp, err := a.tokens.GenerateRefreshToken(uid)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   rtExp.Sub(now),
		UserId:       uid,
	}, nil
}

func (a *authService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.cfg.StoreTimeout)
}

// detachedStoreCtx bounds a mutation by the store timeout but not by the
// caller's cancellation, so rotations and slot writes run to completion
// after a disconnect.
func (a *authService) detachedStoreCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if a.cfg.StoreTimeout <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, a.cfg.StoreTimeout)
}

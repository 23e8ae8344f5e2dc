package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	transport "github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http"
	"github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http/dto"
	jwtimpl "github.com/Kavermo/StreamHive/core-service/internal/app/auth/jwt"
	authmodel "github.com/Kavermo/StreamHive/core-service/internal/domain/auth/model"
	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

/* stubs */

type socialStub struct {
	result model.ToggleResult
	err    error
}

func (s *socialStub) Toggle(context.Context, uuid.UUID, uuid.UUID, model.TargetKind) (model.ToggleResult, error) {
	return s.result, s.err
}

func (s *socialStub) LikedVideos(context.Context, uuid.UUID) ([]model.Video, error) {
	return nil, s.err
}

func (s *socialStub) ChannelProfile(context.Context, uuid.UUID, string) (model.ChannelProfile, error) {
	return model.ChannelProfile{}, s.err
}

func (s *socialStub) ChannelSubscribers(context.Context, uuid.UUID) ([]model.UserSummary, error) {
	return nil, s.err
}

func (s *socialStub) SubscribedChannels(context.Context, uuid.UUID) ([]model.UserSummary, error) {
	return nil, s.err
}

type authSvcStub struct {
	pair authmodel.TokenPair
	user authmodel.User
	err  error
}

func (a *authSvcStub) Register(context.Context, dto.RegisterDTO) (authmodel.TokenPair, error) {
	return a.pair, a.err
}

func (a *authSvcStub) Login(context.Context, dto.LoginDTO, string) (authmodel.TokenPair, error) {
	return a.pair, a.err
}

func (a *authSvcStub) Refresh(context.Context, string) (authmodel.TokenPair, error) {
	return a.pair, a.err
}

func (a *authSvcStub) Logout(context.Context, uuid.UUID) error { return a.err }

func (a *authSvcStub) CurrentUser(context.Context, uuid.UUID) (authmodel.User, error) {
	return a.user, a.err
}

func (a *authSvcStub) UpdateProfile(context.Context, uuid.UUID, dto.UpdateProfileDTO) (authmodel.User, error) {
	return a.user, a.err
}

type contentSvcStub struct {
	err error
}

func (c *contentSvcStub) PublishVideo(context.Context, uuid.UUID, dto.PublishVideoDTO) (model.Video, error) {
	return model.Video{}, c.err
}

func (c *contentSvcStub) Video(context.Context, uuid.UUID, uuid.UUID) (model.VideoView, error) {
	return model.VideoView{}, c.err
}

func (c *contentSvcStub) UpdateVideo(context.Context, uuid.UUID, uuid.UUID, dto.UpdateVideoDTO) (model.Video, error) {
	return model.Video{}, c.err
}

func (c *contentSvcStub) UserVideos(context.Context, uuid.UUID) ([]model.Video, error) {
	return nil, c.err
}

func (c *contentSvcStub) CreateTweet(context.Context, uuid.UUID, dto.CreateTweetDTO) (model.Tweet, error) {
	return model.Tweet{}, c.err
}

func (c *contentSvcStub) UserTweets(context.Context, uuid.UUID, uuid.UUID) ([]model.TweetView, error) {
	return nil, c.err
}

func (c *contentSvcStub) UpdateTweet(context.Context, uuid.UUID, uuid.UUID, dto.UpdateTweetDTO) (model.Tweet, error) {
	return model.Tweet{}, c.err
}

func (c *contentSvcStub) DeleteTweet(context.Context, uuid.UUID, uuid.UUID) error { return c.err }

func (c *contentSvcStub) AddComment(context.Context, uuid.UUID, uuid.UUID, dto.AddCommentDTO) (model.Comment, error) {
	return model.Comment{}, c.err
}

func (c *contentSvcStub) VideoComments(context.Context, uuid.UUID, uuid.UUID) ([]model.CommentView, error) {
	return nil, c.err
}

func (c *contentSvcStub) UpdateComment(context.Context, uuid.UUID, uuid.UUID, dto.UpdateCommentDTO) (model.Comment, error) {
	return model.Comment{}, c.err
}

func (c *contentSvcStub) DeleteComment(context.Context, uuid.UUID, uuid.UUID) error { return c.err }

/* helpers */

func newRouter(t *testing.T, auth *authSvcStub, social *socialStub, content *contentSvcStub) (*gin.Engine, *jwtimpl.TokenManagerImpl) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		Issuer:             "streamhive",
		Audience:           "streamhive",
	}
	tm, err := jwtimpl.NewTokenManager(cfg)
	require.NoError(t, err)

	h := transport.NewHandler(auth, social, content, tm, cfg, zap.NewNop())
	r := gin.New()
	h.Register(r)
	return r, tm
}

func authedRequest(t *testing.T, tm *jwtimpl.TokenManagerImpl, method, path, body string) *http.Request {
	t.Helper()
	token, _, err := tm.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

/* tests */

func TestLogin_SetsCookiesAndBody(t *testing.T) {
	pair := authmodel.TokenPair{
		AccessToken:  "at-value",
		RefreshToken: "rt-value",
		AccessTTL:    time.Minute,
		RefreshTTL:   time.Hour,
		UserId:       uuid.New(),
	}
	r, _ := newRouter(t, &authSvcStub{pair: pair}, &socialStub{}, &contentSvcStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "at-value")
	require.Contains(t, w.Body.String(), pair.UserId.String())

	cookies := w.Result().Cookies()
	names := make(map[string]*http.Cookie, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = ck
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
	require.True(t, names["refreshToken"].HttpOnly)
	require.True(t, names["refreshToken"].Secure)
}

func TestLogin_GenericUnauthorized(t *testing.T) {
	r, _ := newRouter(t, &authSvcStub{err: customErrors.ErrInvalidCredentials}, &socialStub{}, &contentSvcStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid credentials")
}

func TestRefresh_ReuseLooksLikeInvalidToken(t *testing.T) {
	r, _ := newRouter(t, &authSvcStub{err: customErrors.ErrTokenReuse}, &socialStub{}, &contentSvcStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
		strings.NewReader(`{"refreshToken":"stale"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
	require.NotContains(t, w.Body.String(), "reuse")
}

func TestToggleSubscription_RequiresAuth(t *testing.T) {
	r, _ := newRouter(t, &authSvcStub{}, &socialStub{result: model.ToggleCreated}, &contentSvcStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/channel/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggleSubscription_ReturnsResult(t *testing.T) {
	r, tm := newRouter(t, &authSvcStub{}, &socialStub{result: model.ToggleCreated}, &contentSvcStub{})

	req := authedRequest(t, tm, http.MethodPost, "/api/v1/subscriptions/channel/"+uuid.NewString(), "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "created")
}

func TestToggleLike_BadTargetID(t *testing.T) {
	r, tm := newRouter(t, &authSvcStub{}, &socialStub{}, &contentSvcStub{})

	req := authedRequest(t, tm, http.MethodPost, "/api/v1/likes/video/not-a-uuid", "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLike_UnknownTarget(t *testing.T) {
	r, tm := newRouter(t, &authSvcStub{}, &socialStub{err: customErrors.ErrNotFound}, &contentSvcStub{})

	req := authedRequest(t, tm, http.MethodPost, "/api/v1/likes/video/"+uuid.NewString(), "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreUnavailable_Maps503(t *testing.T) {
	r, _ := newRouter(t, &authSvcStub{}, &socialStub{err: customErrors.ErrStoreUnavailable}, &contentSvcStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/somechannel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestUpdateVideo_ForbiddenForNonOwner(t *testing.T) {
	r, tm := newRouter(t, &authSvcStub{}, &socialStub{}, &contentSvcStub{err: customErrors.ErrPermissionDenied})

	req := authedRequest(t, tm, http.MethodPatch, "/api/v1/videos/"+uuid.NewString(),
		`{"title":"Renamed"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t, &authSvcStub{}, &socialStub{}, &contentSvcStub{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

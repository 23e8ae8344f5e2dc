package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	contentsvc "github.com/Kavermo/StreamHive/core-service/internal/app/content/service"
	"github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

/* stubs */

type videoStoreStub struct {
	mu     sync.Mutex
	videos map[uuid.UUID]model.Video
}

func newVideoStoreStub() *videoStoreStub {
	return &videoStoreStub{videos: make(map[uuid.UUID]model.Video)}
}

func (v *videoStoreStub) Create(_ context.Context, m model.Video) (uuid.UUID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.videos[m.ID] = m
	return m.ID, nil
}

func (v *videoStoreStub) GetByID(_ context.Context, id uuid.UUID) (model.Video, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	m, ok := v.videos[id]
	if !ok {
		return model.Video{}, customErrors.ErrNotFound
	}
	return m, nil
}

func (v *videoStoreStub) Update(_ context.Context, m model.Video) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.videos[m.ID]; !ok {
		return customErrors.ErrNotFound
	}
	v.videos[m.ID] = m
	return nil
}

func (v *videoStoreStub) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Video, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []model.Video
	for _, m := range v.videos {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (v *videoStoreStub) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.videos[id]
	return ok, nil
}

type tweetStoreStub struct {
	mu     sync.Mutex
	tweets map[uuid.UUID]model.Tweet
}

func newTweetStoreStub() *tweetStoreStub {
	return &tweetStoreStub{tweets: make(map[uuid.UUID]model.Tweet)}
}

func (t *tweetStoreStub) Create(_ context.Context, m model.Tweet) (uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tweets[m.ID] = m
	return m.ID, nil
}

func (t *tweetStoreStub) GetByID(_ context.Context, id uuid.UUID) (model.Tweet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.tweets[id]
	if !ok {
		return model.Tweet{}, customErrors.ErrNotFound
	}
	return m, nil
}

func (t *tweetStoreStub) Update(_ context.Context, m model.Tweet) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tweets[m.ID] = m
	return nil
}

func (t *tweetStoreStub) Delete(_ context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tweets, id)
	return nil
}

func (t *tweetStoreStub) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Tweet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []model.Tweet
	for _, m := range t.tweets {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (t *tweetStoreStub) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tweets[id]
	return ok, nil
}

type commentStoreStub struct {
	mu       sync.Mutex
	comments map[uuid.UUID]model.Comment
}

func newCommentStoreStub() *commentStoreStub {
	return &commentStoreStub{comments: make(map[uuid.UUID]model.Comment)}
}

func (c *commentStoreStub) Create(_ context.Context, m model.Comment) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments[m.ID] = m
	return m.ID, nil
}

func (c *commentStoreStub) GetByID(_ context.Context, id uuid.UUID) (model.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.comments[id]
	if !ok {
		return model.Comment{}, customErrors.ErrNotFound
	}
	return m, nil
}

func (c *commentStoreStub) Update(_ context.Context, m model.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments[m.ID] = m
	return nil
}

func (c *commentStoreStub) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.comments, id)
	return nil
}

func (c *commentStoreStub) ListByVideo(_ context.Context, videoID uuid.UUID) ([]model.CommentView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.CommentView
	for _, m := range c.comments {
		if m.VideoID == videoID {
			out = append(out, model.CommentView{Comment: m})
		}
	}
	return out, nil
}

func (c *commentStoreStub) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.comments[id]
	return ok, nil
}

// edgeCountStub backs like-count decoration with a fixed edge set.
type edgeCountStub struct {
	mu    sync.Mutex
	edges map[[2]uuid.UUID]model.TargetKind
}

func newEdgeCountStub() *edgeCountStub {
	return &edgeCountStub{edges: make(map[[2]uuid.UUID]model.TargetKind)}
}

func (e *edgeCountStub) like(actorID, targetID uuid.UUID, kind model.TargetKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edges[[2]uuid.UUID{actorID, targetID}] = kind
}

func (e *edgeCountStub) Insert(_ context.Context, edge model.Edge) error {
	e.like(edge.ActorID, edge.TargetID, edge.TargetKind)
	return nil
}

func (e *edgeCountStub) Delete(context.Context, uuid.UUID, uuid.UUID, model.TargetKind) (bool, error) {
	return false, nil
}

func (e *edgeCountStub) Exists(_ context.Context, actorID, targetID uuid.UUID, kind model.TargetKind) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k, ok := e.edges[[2]uuid.UUID{actorID, targetID}]
	return ok && k == kind, nil
}

func (e *edgeCountStub) CountByTarget(_ context.Context, targetID uuid.UUID, kind model.TargetKind) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var n int64
	for key, k := range e.edges {
		if key[1] == targetID && k == kind {
			n++
		}
	}
	return n, nil
}

func (e *edgeCountStub) CountByActor(context.Context, uuid.UUID, model.TargetKind) (int64, error) {
	return 0, nil
}

func (e *edgeCountStub) CountByTargets(ctx context.Context, targetIDs []uuid.UUID, kind model.TargetKind) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	for _, id := range targetIDs {
		n, _ := e.CountByTarget(ctx, id, kind)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (e *edgeCountStub) ActorSummariesByTarget(context.Context, uuid.UUID, model.TargetKind) ([]model.UserSummary, error) {
	return nil, nil
}

func (e *edgeCountStub) TargetSummariesByActor(context.Context, uuid.UUID, model.TargetKind) ([]model.UserSummary, error) {
	return nil, nil
}

func (e *edgeCountStub) LikedVideos(context.Context, uuid.UUID) ([]model.Video, error) {
	return nil, nil
}

/* helpers */

type fixture struct {
	svc    contentsvc.Service
	videos *videoStoreStub
	tweets *tweetStoreStub
	edges  *edgeCountStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	videos := newVideoStoreStub()
	tweets := newTweetStoreStub()
	comments := newCommentStoreStub()
	edges := newEdgeCountStub()

	svc := contentsvc.New(videos, tweets, comments, edges,
		&config.Config{StoreTimeout: time.Second}, validator.New())
	return &fixture{svc: svc, videos: videos, tweets: tweets, edges: edges}
}

func publishVideo(t *testing.T, f *fixture, ownerID uuid.UUID) model.Video {
	t.Helper()
	video, err := f.svc.PublishVideo(context.Background(), ownerID, dto.PublishVideoDTO{
		Title:           "First upload",
		Description:     "hello",
		VideoURL:        "https://cdn.example.com/v/1.mp4",
		ThumbnailURL:    "https://cdn.example.com/t/1.jpg",
		DurationSeconds: 42.5,
	})
	require.NoError(t, err)
	return video
}

/* tests */

func TestPublishVideo_PersistsAndReadsBack(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	video := publishVideo(t, f, owner)
	require.Equal(t, owner, video.OwnerID)

	view, err := f.svc.Video(context.Background(), uuid.Nil, video.ID)
	require.NoError(t, err)
	require.Equal(t, "First upload", view.Title)
	require.Zero(t, view.LikeCount)
	require.False(t, view.IsLiked)
}

func TestPublishVideo_RejectsMissingURL(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PublishVideo(context.Background(), uuid.New(), dto.PublishVideoDTO{
		Title: "no url",
	})
	require.ErrorIs(t, err, customErrors.ErrInvalidArgument)
}

func TestVideo_DecoratesLikes(t *testing.T) {
	f := newFixture(t)
	viewer := uuid.New()
	video := publishVideo(t, f, uuid.New())

	f.edges.like(viewer, video.ID, model.KindVideo)
	f.edges.like(uuid.New(), video.ID, model.KindVideo)

	view, err := f.svc.Video(context.Background(), viewer, video.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), view.LikeCount)
	require.True(t, view.IsLiked)

	view, err = f.svc.Video(context.Background(), uuid.New(), video.ID)
	require.NoError(t, err)
	require.False(t, view.IsLiked)
}

func TestVideo_Unknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Video(context.Background(), uuid.Nil, uuid.New())
	require.ErrorIs(t, err, customErrors.ErrNotFound)
}

func TestUpdateVideo_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	video := publishVideo(t, f, owner)

	_, err := f.svc.UpdateVideo(context.Background(), uuid.New(), video.ID, dto.UpdateVideoDTO{
		Title: "hijacked",
	})
	require.ErrorIs(t, err, customErrors.ErrPermissionDenied)

	updated, err := f.svc.UpdateVideo(context.Background(), owner, video.ID, dto.UpdateVideoDTO{
		Title:       "Renamed",
		Description: "new text",
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	// Empty thumbnail in the request keeps the stored one.
	require.Equal(t, video.ThumbnailURL, updated.ThumbnailURL)
}

func TestTweetLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	viewer := uuid.New()

	tweet, err := f.svc.CreateTweet(context.Background(), owner, dto.CreateTweetDTO{Content: "gm"})
	require.NoError(t, err)

	f.edges.like(viewer, tweet.ID, model.KindTweet)

	views, err := f.svc.UserTweets(context.Background(), viewer, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, int64(1), views[0].LikeCount)
	require.True(t, views[0].IsLiked)

	_, err = f.svc.UpdateTweet(context.Background(), viewer, tweet.ID, dto.UpdateTweetDTO{Content: "edit"})
	require.ErrorIs(t, err, customErrors.ErrPermissionDenied)

	updated, err := f.svc.UpdateTweet(context.Background(), owner, tweet.ID, dto.UpdateTweetDTO{Content: "gn"})
	require.NoError(t, err)
	require.Equal(t, "gn", updated.Content)

	require.ErrorIs(t, f.svc.DeleteTweet(context.Background(), viewer, tweet.ID), customErrors.ErrPermissionDenied)
	require.NoError(t, f.svc.DeleteTweet(context.Background(), owner, tweet.ID))

	views, err = f.svc.UserTweets(context.Background(), uuid.Nil, owner)
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestAddComment_RequiresVideo(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddComment(context.Background(), uuid.New(), uuid.New(), dto.AddCommentDTO{Content: "nice"})
	require.ErrorIs(t, err, customErrors.ErrNotFound)
}

func TestCommentLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	viewer := uuid.New()
	video := publishVideo(t, f, uuid.New())

	comment, err := f.svc.AddComment(context.Background(), owner, video.ID, dto.AddCommentDTO{Content: "first"})
	require.NoError(t, err)

	f.edges.like(viewer, comment.ID, model.KindComment)

	views, err := f.svc.VideoComments(context.Background(), viewer, video.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, int64(1), views[0].LikeCount)
	require.True(t, views[0].IsLiked)

	_, err = f.svc.UpdateComment(context.Background(), viewer, comment.ID, dto.UpdateCommentDTO{Content: "edited"})
	require.ErrorIs(t, err, customErrors.ErrPermissionDenied)

	require.NoError(t, f.svc.DeleteComment(context.Background(), owner, comment.ID))

	views, err = f.svc.VideoComments(context.Background(), uuid.Nil, video.ID)
	require.NoError(t, err)
	require.Empty(t, views)
}

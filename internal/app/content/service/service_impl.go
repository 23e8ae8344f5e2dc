package service

import (
	"context"

	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	socialrepo "github.com/Kavermo/StreamHive/core-service/internal/domain/social/repo"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/config"

	"github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http/dto"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// contentService owns video/tweet/comment lifecycles. It reads the edge
// store only to decorate views with like counts; all edge mutations go
// through the social service.
type contentService struct {
	videos   socialrepo.VideoRepo
	tweets   socialrepo.TweetRepo
	comments socialrepo.CommentRepo
	edges    socialrepo.EdgeRepo
	cfg      *config.Config
	v        *validator.Validate
}

type Service interface {
	PublishVideo(ctx context.Context, ownerID uuid.UUID, in dto.PublishVideoDTO) (model.Video, error)
	Video(ctx context.Context, viewerID, videoID uuid.UUID) (model.VideoView, error)
	UpdateVideo(ctx context.Context, actorID, videoID uuid.UUID, in dto.UpdateVideoDTO) (model.Video, error)
	UserVideos(ctx context.Context, ownerID uuid.UUID) ([]model.Video, error)

	CreateTweet(ctx context.Context, ownerID uuid.UUID, in dto.CreateTweetDTO) (model.Tweet, error)
	UserTweets(ctx context.Context, viewerID, ownerID uuid.UUID) ([]model.TweetView, error)
	UpdateTweet(ctx context.Context, actorID, tweetID uuid.UUID, in dto.UpdateTweetDTO) (model.Tweet, error)
	DeleteTweet(ctx context.Context, actorID, tweetID uuid.UUID) error

	AddComment(ctx context.Context, ownerID, videoID uuid.UUID, in dto.AddCommentDTO) (model.Comment, error)
	VideoComments(ctx context.Context, viewerID, videoID uuid.UUID) ([]model.CommentView, error)
	UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, in dto.UpdateCommentDTO) (model.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
}

func New(
	videos socialrepo.VideoRepo,
	tweets socialrepo.TweetRepo,
	comments socialrepo.CommentRepo,
	edges socialrepo.EdgeRepo,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &contentService{
		videos: videos, tweets: tweets, comments: comments, edges: edges, cfg: cfg, v: v,
	}
}

/* videos */

func (c *contentService) PublishVideo(ctx context.Context, ownerID uuid.UUID, in dto.PublishVideoDTO) (model.Video, error) {
	if err := c.v.Struct(in); err != nil {
		return model.Video{}, customErrors.NewInvalidArgument(err.Error())
	}

	// The blob itself lives in external storage; we only record the URL
	// and metadata the upload service reported.
	video := model.Video{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           in.Title,
		Description:     in.Description,
		VideoURL:        in.VideoURL,
		ThumbnailURL:    in.ThumbnailURL,
		DurationSeconds: in.DurationSeconds,
	}

	sctx, cancel := c.storeCtx(ctx)
	defer cancel()
	if _, err := c.videos.Create(sctx, video); err != nil {
		return model.Video{}, err
	}
	return video, nil
}

func (c *contentService) Video(ctx context.Context, viewerID, videoID uuid.UUID) (model.VideoView, error) {
	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	video, err := c.videos.GetByID(sctx, videoID)
	if err != nil {
		return model.VideoView{}, err
	}

	likes, err := c.edges.CountByTarget(sctx, videoID, model.KindVideo)
	if err != nil {
		return model.VideoView{}, err
	}

	isLiked := false
	if viewerID != uuid.Nil {
		isLiked, err = c.edges.Exists(sctx, viewerID, videoID, model.KindVideo)
		if err != nil {
			return model.VideoView{}, err
		}
	}

	return model.VideoView{Video: video, LikeCount: likes, IsLiked: isLiked}, nil
}

func (c *contentService) UpdateVideo(ctx context.Context, actorID, videoID uuid.UUID, in dto.UpdateVideoDTO) (model.Video, error) {
	if err := c.v.Struct(in); err != nil {
		return model.Video{}, customErrors.NewInvalidArgument(err.Error())
	}

	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	video, err := c.videos.GetByID(sctx, videoID)
	if err != nil {
		return model.Video{}, err
	}
	if video.OwnerID != actorID {
		return model.Video{}, customErrors.ErrPermissionDenied
	}

	video.Title = in.Title
	video.Description = in.Description
	if in.ThumbnailURL != "" {
		video.ThumbnailURL = in.ThumbnailURL
	}

	if err := c.videos.Update(sctx, video); err != nil {
		return model.Video{}, err
	}
	return video, nil
}

func (c *contentService) UserVideos(ctx context.Context, ownerID uuid.UUID) ([]model.Video, error) {
	sctx, cancel := c.storeCtx(ctx)
	defer cancel()
	return c.videos.ListByOwner(sctx, ownerID)
}

/* tweets */

func (c *contentService) CreateTweet(ctx context.Context, ownerID uuid.UUID, in dto.CreateTweetDTO) (model.Tweet, error) {
	if err := c.v.Struct(in); err != nil {
		return model.Tweet{}, customErrors.NewInvalidArgument(err.Error())
	}

	tweet := model.Tweet{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Content: in.Content,
	}

	sctx, cancel := c.storeCtx(ctx)
	defer cancel()
	if _, err := c.tweets.Create(sctx, tweet); err != nil {
		return model.Tweet{}, err
	}
	return tweet, nil
}

func (c *contentService) UserTweets(ctx context.Context, viewerID, ownerID uuid.UUID) ([]model.TweetView, error) {
	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	tweets, err := c.tweets.ListByOwner(sctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(tweets))
	for i, t := range tweets {
		ids[i] = t.ID
	}
	counts, err := c.edges.CountByTargets(sctx, ids, model.KindTweet)
	if err != nil {
		return nil, err
	}

	views := make([]model.TweetView, len(tweets))
	for i, t := range tweets {
		views[i] = model.TweetView{Tweet: t, LikeCount: counts[t.ID]}
		if viewerID != uuid.Nil {
			liked, err := c.edges.Exists(sctx, viewerID, t.ID, model.KindTweet)
			if err != nil {
				return nil, err
			}
			views[i].IsLiked = liked
		}
	}
	return views, nil
}

func (c *contentService) UpdateTweet(ctx context.Context, actorID, tweetID uuid.UUID, in dto.UpdateTweetDTO) (model.Tweet, error) {
	if err := c.v.Struct(in); err != nil {
		return model.Tweet{}, customErrors.NewInvalidArgument(err.Error())
	}

	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	tweet, err := c.tweets.GetByID(sctx, tweetID)
	if err != nil {
		return model.Tweet{}, err
	}
	if tweet.OwnerID != actorID {
		return model.Tweet{}, customErrors.ErrPermissionDenied
	}

	tweet.Content = in.Content
	if err := c.tweets.Update(sctx, tweet); err != nil {
		return model.Tweet{}, err
	}
	return tweet, nil
}

func (c *contentService) DeleteTweet(ctx context.Context, actorID, tweetID uuid.UUID) error {
	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	tweet, err := c.tweets.GetByID(sctx, tweetID)
	if err != nil {
		return err
	}
	if tweet.OwnerID != actorID {
		return customErrors.ErrPermissionDenied
	}

	return c.tweets.Delete(sctx, tweetID)
}

/* comments */

func (c *contentService) AddComment(ctx context.Context, ownerID, videoID uuid.UUID, in dto.AddCommentDTO) (model.Comment, error) {
	if err := c.v.Struct(in); err != nil {
		return model.Comment{}, customErrors.NewInvalidArgument(err.Error())
	}

	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	ok, err := c.videos.Exists(sctx, videoID)
	if err != nil {
		return model.Comment{}, err
	}
	if !ok {
		return model.Comment{}, customErrors.ErrNotFound
	}

	comment := model.Comment{
		ID:      uuid.New(),
		VideoID: videoID,
		OwnerID: ownerID,
		Content: in.Content,
	}
	if _, err := c.comments.Create(sctx, comment); err != nil {
		return model.Comment{}, err
	}
	return comment, nil
}

func (c *contentService) VideoComments(ctx context.Context, viewerID, videoID uuid.UUID) ([]model.CommentView, error) {
	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	ok, err := c.videos.Exists(sctx, videoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, customErrors.ErrNotFound
	}

	views, err := c.comments.ListByVideo(sctx, videoID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	counts, err := c.edges.CountByTargets(sctx, ids, model.KindComment)
	if err != nil {
		return nil, err
	}

	for i := range views {
		views[i].LikeCount = counts[views[i].ID]
		if viewerID != uuid.Nil {
			liked, err := c.edges.Exists(sctx, viewerID, views[i].ID, model.KindComment)
			if err != nil {
				return nil, err
			}
			views[i].IsLiked = liked
		}
	}
	return views, nil
}

func (c *contentService) UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, in dto.UpdateCommentDTO) (model.Comment, error) {
	if err := c.v.Struct(in); err != nil {
		return model.Comment{}, customErrors.NewInvalidArgument(err.Error())
	}

	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	comment, err := c.comments.GetByID(sctx, commentID)
	if err != nil {
		return model.Comment{}, err
	}
	if comment.OwnerID != actorID {
		return model.Comment{}, customErrors.ErrPermissionDenied
	}

	comment.Content = in.Content
	if err := c.comments.Update(sctx, comment); err != nil {
		return model.Comment{}, err
	}
	return comment, nil
}

func (c *contentService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	sctx, cancel := c.storeCtx(ctx)
	defer cancel()

	comment, err := c.comments.GetByID(sctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != actorID {
		return customErrors.ErrPermissionDenied
	}

	return c.comments.Delete(sctx, commentID)
}

func (c *contentService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.StoreTimeout)
}

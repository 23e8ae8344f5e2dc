package service

import (
	"context"
	"errors"
	"strings"

	authrepo "github.com/Kavermo/StreamHive/core-service/internal/domain/auth/repo"
	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	socialrepo "github.com/Kavermo/StreamHive/core-service/internal/domain/social/repo"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/config"
	"github.com/google/uuid"
)

// socialService is the relationship engine plus the read-side projections
// derived from its edges. One toggle primitive backs likes on
// videos/comments/tweets and channel subscriptions alike.
type socialService struct {
	edges    socialrepo.EdgeRepo
	users    authrepo.UserRepo
	videos   socialrepo.VideoRepo
	tweets   socialrepo.TweetRepo
	comments socialrepo.CommentRepo
	cfg      *config.Config
}

type Service interface {
	Toggle(ctx context.Context, actorID, targetID uuid.UUID, kind model.TargetKind) (model.ToggleResult, error)
	LikedVideos(ctx context.Context, actorID uuid.UUID) ([]model.Video, error)
	ChannelProfile(ctx context.Context, viewerID uuid.UUID, username string) (model.ChannelProfile, error)
	ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.UserSummary, error)
	SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.UserSummary, error)
}

func New(
	edges socialrepo.EdgeRepo,
	users authrepo.UserRepo,
	videos socialrepo.VideoRepo,
	tweets socialrepo.TweetRepo,
	comments socialrepo.CommentRepo,
	cfg *config.Config,
) Service {
	return &socialService{
		edges: edges, users: users, videos: videos, tweets: tweets, comments: comments, cfg: cfg,
	}
}

// Toggle flips the edge (actor, target, kind): absent becomes present
// (Created), present becomes absent (Removed). The edge table's uniqueness
// constraint arbitrates concurrent calls; a duplicate insert collapses to
// the toggle-off path instead of surfacing a constraint violation.
func (s *socialService) Toggle(ctx context.Context, actorID, targetID uuid.UUID, kind model.TargetKind) (model.ToggleResult, error) {
	if !kind.Valid() {
		return "", customErrors.NewInvalidArgument("unknown target kind")
	}
	if actorID == uuid.Nil || targetID == uuid.Nil {
		return "", customErrors.NewInvalidArgument("actor and target required")
	}
	// Self-subscription is meaningless for the graph; self-likes on own
	// content stay allowed.
	if kind == model.KindChannel && actorID == targetID {
		return "", customErrors.ErrInvalidTarget
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	ok, err := s.targetExists(sctx, targetID, kind)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", customErrors.ErrNotFound
	}

	// The mutation finishes even if the caller disconnects; a retry is a
	// plain toggle against the resulting state.
	mctx, mcancel := s.detachedStoreCtx(ctx)
	defer mcancel()

	removed, err := s.edges.Delete(mctx, actorID, targetID, kind)
	if err != nil {
		return "", err
	}
	if removed {
		return model.ToggleRemoved, nil
	}

	err = s.edges.Insert(mctx, model.Edge{
		ActorID:    actorID,
		TargetID:   targetID,
		TargetKind: kind,
	})
	if err == nil {
		return model.ToggleCreated, nil
	}
	if !errors.Is(err, customErrors.ErrAlreadyExists) {
		return "", err
	}

	// Lost the race with a concurrent toggle-on: the edge exists, so
	// resolve this call as the toggle-off it would have been.
	if _, err := s.edges.Delete(mctx, actorID, targetID, kind); err != nil {
		return "", err
	}
	return model.ToggleRemoved, nil
}

func (s *socialService) LikedVideos(ctx context.Context, actorID uuid.UUID) ([]model.Video, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.edges.LikedVideos(sctx, actorID)
}

// ChannelProfile resolves a channel by its normalized username and derives
// the subscription counts and the viewer's isSubscribed flag from edges at
// query time.
func (s *socialService) ChannelProfile(ctx context.Context, viewerID uuid.UUID, username string) (model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return model.ChannelProfile{}, customErrors.NewInvalidArgument("username required")
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	channel, err := s.users.GetUserByUsername(sctx, username)
	if err != nil {
		return model.ChannelProfile{}, err
	}

	subscribers, err := s.edges.CountByTarget(sctx, channel.ID, model.KindChannel)
	if err != nil {
		return model.ChannelProfile{}, err
	}
	subscribedTo, err := s.edges.CountByActor(sctx, channel.ID, model.KindChannel)
	if err != nil {
		return model.ChannelProfile{}, err
	}

	isSubscribed := false
	if viewerID != uuid.Nil && viewerID != channel.ID {
		isSubscribed, err = s.edges.Exists(sctx, viewerID, channel.ID, model.KindChannel)
		if err != nil {
			return model.ChannelProfile{}, err
		}
	}

	return model.ChannelProfile{
		ID:                        channel.ID,
		DisplayName:               channel.FullName,
		Handle:                    channel.Username,
		AvatarURL:                 channel.AvatarURL,
		SubscriberCount:           subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

func (s *socialService) ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.UserSummary, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	ok, err := s.users.UserExists(sctx, channelID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, customErrors.ErrNotFound
	}

	return s.edges.ActorSummariesByTarget(sctx, channelID, model.KindChannel)
}

func (s *socialService) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.UserSummary, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	ok, err := s.users.UserExists(sctx, subscriberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, customErrors.ErrNotFound
	}

	return s.edges.TargetSummariesByActor(sctx, subscriberID, model.KindChannel)
}

func (s *socialService) targetExists(ctx context.Context, targetID uuid.UUID, kind model.TargetKind) (bool, error) {
	switch kind {
	case model.KindVideo:
		return s.videos.Exists(ctx, targetID)
	case model.KindComment:
		return s.comments.Exists(ctx, targetID)
	case model.KindTweet:
		return s.tweets.Exists(ctx, targetID)
	case model.KindChannel:
		return s.users.UserExists(ctx, targetID)
	}
	return false, customErrors.NewInvalidArgument("unknown target kind")
}

func (s *socialService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

func (s *socialService) detachedStoreCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.cfg.StoreTimeout <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, s.cfg.StoreTimeout)
}

package model

import (
	"github.com/google/uuid"
	"time"
)

// TargetKind discriminates what an edge points at. It is part of the edge's
// unique key: one actor has at most one edge toward a given target of a
// given kind.
type TargetKind string

const (
	KindVideo   TargetKind = "video"
	KindComment TargetKind = "comment"
	KindTweet   TargetKind = "tweet"
	KindChannel TargetKind = "channel"
)

func (k TargetKind) Valid() bool {
	switch k {
	case KindVideo, KindComment, KindTweet, KindChannel:
		return true
	}
	return false
}

// Edge is a like (video/comment/tweet) or a subscription (channel).
// Created by a toggle-on, deleted by a toggle-off, never updated.
type Edge struct {
	ActorID    uuid.UUID
	TargetID   uuid.UUID
	TargetKind TargetKind
	CreatedAt  time.Time
}

type ToggleResult string

const (
	ToggleCreated ToggleResult = "created"
	ToggleRemoved ToggleResult = "removed"
)

type Video struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Title           string
	Description     string
	VideoURL        string
	ThumbnailURL    string
	DurationSeconds float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Tweet struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        uuid.UUID
	VideoID   uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChannelProfile is the read-side view of a channel as seen by a viewer.
// Derived from edges at query time; never includes credentials.
type ChannelProfile struct {
	ID                        uuid.UUID
	DisplayName               string
	Handle                    string
	AvatarURL                 string
	SubscriberCount           int64
	ChannelsSubscribedToCount int64
	IsSubscribed              bool
}

// UserSummary is the projection row for subscriber / subscribed-channel
// listings.
type UserSummary struct {
	ID          uuid.UUID
	DisplayName string
	Handle      string
	AvatarURL   string
}

type VideoView struct {
	Video
	LikeCount int64
	IsLiked   bool
}

type TweetView struct {
	Tweet
	LikeCount int64
	IsLiked   bool
}

type CommentView struct {
	Comment
	OwnerHandle    string
	OwnerAvatarURL string
	LikeCount      int64
	IsLiked        bool
}

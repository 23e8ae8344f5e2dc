package http

import (
	"net/http"

	authsvc "github.com/Kavermo/StreamHive/core-service/internal/app/auth/service"
	contentsvc "github.com/Kavermo/StreamHive/core-service/internal/app/content/service"
	socialsvc "github.com/Kavermo/StreamHive/core-service/internal/app/social/service"
	authmodel "github.com/Kavermo/StreamHive/core-service/internal/domain/auth/model"
	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/Kavermo/StreamHive/core-service/internal/domain/social/model"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/config"

	jwtdomain "github.com/Kavermo/StreamHive/core-service/internal/domain/auth/jwt"

	"github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http/dto"
	"github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	auth    authsvc.Service
	social  socialsvc.Service
	content contentsvc.Service
	tokens  jwtdomain.TokenManager
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(
	auth authsvc.Service,
	social socialsvc.Service,
	content contentsvc.Service,
	tokens jwtdomain.TokenManager,
	cfg *config.Config,
	log *zap.Logger,
) *Handler {
	return &Handler{
		auth: auth, social: social, content: content, tokens: tokens, cfg: cfg, log: log,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	requireAuth := middleware.Auth(h.tokens)
	optionalAuth := middleware.AuthOptional(h.tokens)

	api := router.Group("/api/v1")

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.POST("/auth/refresh", h.refresh)
	api.POST("/auth/logout", requireAuth, h.logout)

	api.GET("/profiles/me", requireAuth, h.currentUser)
	api.PATCH("/profiles/me", requireAuth, h.updateProfile)

	api.GET("/channels/:username", optionalAuth, h.channelProfile)

	api.POST("/subscriptions/channel/:channelId", requireAuth, h.toggleSubscription)
	api.GET("/subscriptions/channel/:channelId/subscribers", h.channelSubscribers)
	api.GET("/subscriptions/user/:userId", h.subscribedChannels)

	api.POST("/likes/video/:videoId", requireAuth, h.toggleLike(model.KindVideo, "videoId"))
	api.POST("/likes/comment/:commentId", requireAuth, h.toggleLike(model.KindComment, "commentId"))
	api.POST("/likes/tweet/:tweetId", requireAuth, h.toggleLike(model.KindTweet, "tweetId"))
	api.GET("/likes/videos", requireAuth, h.likedVideos)

	api.POST("/videos", requireAuth, h.publishVideo)
	api.GET("/videos/:videoId", optionalAuth, h.video)
	api.PATCH("/videos/:videoId", requireAuth, h.updateVideo)
	api.GET("/videos/:videoId/comments", optionalAuth, h.videoComments)
	api.POST("/videos/:videoId/comments", requireAuth, h.addComment)
	api.PATCH("/comments/:commentId", requireAuth, h.updateComment)
	api.DELETE("/comments/:commentId", requireAuth, h.deleteComment)

	api.POST("/tweets", requireAuth, h.createTweet)
	api.PATCH("/tweets/:tweetId", requireAuth, h.updateTweet)
	api.DELETE("/tweets/:tweetId", requireAuth, h.deleteTweet)

	api.GET("/users/:userId/videos", h.userVideos)
	api.GET("/users/:userId/tweets", optionalAuth, h.userTweets)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

/* auth */

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.auth.Register(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, pair)
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), body, c.ClientIP())
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, pair)
}

func (h *Handler) refresh(c *gin.Context) {
	raw, _ := c.Cookie("refreshToken")
	if raw == "" {
		var body dto.RefreshDTO
		if err := c.ShouldBindJSON(&body); err == nil {
			raw = body.RefreshToken
		}
	}

	pair, err := h.auth.Refresh(c.Request.Context(), raw)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, pair)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.handleError(c, err)
		return
	}
	h.clearTokens(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var body dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.UserID(c), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}

/* subscriptions and likes */

func (h *Handler) toggleSubscription(c *gin.Context) {
	channelID, ok := h.pathUUID(c, "channelId")
	if !ok {
		return
	}

	result, err := h.social.Toggle(c.Request.Context(), middleware.UserID(c), channelID, model.KindChannel)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *Handler) toggleLike(kind model.TargetKind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := h.pathUUID(c, param)
		if !ok {
			return
		}

		result, err := h.social.Toggle(c.Request.Context(), middleware.UserID(c), targetID, kind)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

func (h *Handler) likedVideos(c *gin.Context) {
	videos, err := h.social.LikedVideos(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]gin.H, len(videos))
	for i, v := range videos {
		out[i] = videoJSON(v)
	}
	c.JSON(http.StatusOK, gin.H{"videos": out})
}

func (h *Handler) channelProfile(c *gin.Context) {
	profile, err := h.social.ChannelProfile(c.Request.Context(), middleware.UserID(c), c.Param("username"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                        profile.ID,
		"displayName":               profile.DisplayName,
		"handle":                    profile.Handle,
		"avatarUrl":                 profile.AvatarURL,
		"subscriberCount":           profile.SubscriberCount,
		"channelsSubscribedToCount": profile.ChannelsSubscribedToCount,
		"isSubscribed":              profile.IsSubscribed,
	})
}

func (h *Handler) channelSubscribers(c *gin.Context) {
	channelID, ok := h.pathUUID(c, "channelId")
	if !ok {
		return
	}

	subs, err := h.social.ChannelSubscribers(c.Request.Context(), channelID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": summariesJSON(subs)})
}

func (h *Handler) subscribedChannels(c *gin.Context) {
	userID, ok := h.pathUUID(c, "userId")
	if !ok {
		return
	}

	channels, err := h.social.SubscribedChannels(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": summariesJSON(channels)})
}

/* videos */

func (h *Handler) publishVideo(c *gin.Context) {
	var body dto.PublishVideoDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.content.PublishVideo(c.Request.Context(), middleware.UserID(c), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, videoJSON(video))
}

func (h *Handler) video(c *gin.Context) {
	videoID, ok := h.pathUUID(c, "videoId")
	if !ok {
		return
	}

	view, err := h.content.Video(c.Request.Context(), middleware.UserID(c), videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := videoJSON(view.Video)
	out["likeCount"] = view.LikeCount
	out["isLiked"] = view.IsLiked
	c.JSON(http.StatusOK, out)
}

func (h *Handler) updateVideo(c *gin.Context) {
	videoID, ok := h.pathUUID(c, "videoId")
	if !ok {
		return
	}

	var body dto.UpdateVideoDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.content.UpdateVideo(c.Request.Context(), middleware.UserID(c), videoID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, videoJSON(video))
}

func (h *Handler) userVideos(c *gin.Context) {
	userID, ok := h.pathUUID(c, "userId")
	if !ok {
		return
	}

	videos, err := h.content.UserVideos(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]gin.H, len(videos))
	for i, v := range videos {
		out[i] = videoJSON(v)
	}
	c.JSON(http.StatusOK, gin.H{"videos": out})
}

/* comments */

func (h *Handler) addComment(c *gin.Context) {
	videoID, ok := h.pathUUID(c, "videoId")
	if !ok {
		return
	}

	var body dto.AddCommentDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.content.AddComment(c.Request.Context(), middleware.UserID(c), videoID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentJSON(comment))
}

func (h *Handler) videoComments(c *gin.Context) {
	videoID, ok := h.pathUUID(c, "videoId")
	if !ok {
		return
	}

	views, err := h.content.VideoComments(c.Request.Context(), middleware.UserID(c), videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]gin.H, len(views))
	for i, v := range views {
		j := commentJSON(v.Comment)
		j["ownerHandle"] = v.OwnerHandle
		j["ownerAvatarUrl"] = v.OwnerAvatarURL
		j["likeCount"] = v.LikeCount
		j["isLiked"] = v.IsLiked
		out[i] = j
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

func (h *Handler) updateComment(c *gin.Context) {
	commentID, ok := h.pathUUID(c, "commentId")
	if !ok {
		return
	}

	var body dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.content.UpdateComment(c.Request.Context(), middleware.UserID(c), commentID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentJSON(comment))
}

func (h *Handler) deleteComment(c *gin.Context) {
	commentID, ok := h.pathUUID(c, "commentId")
	if !ok {
		return
	}

	if err := h.content.DeleteComment(c.Request.Context(), middleware.UserID(c), commentID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

/* tweets */

func (h *Handler) createTweet(c *gin.Context) {
	var body dto.CreateTweetDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tweet, err := h.content.CreateTweet(c.Request.Context(), middleware.UserID(c), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tweetJSON(tweet))
}

func (h *Handler) userTweets(c *gin.Context) {
	userID, ok := h.pathUUID(c, "userId")
	if !ok {
		return
	}

	views, err := h.content.UserTweets(c.Request.Context(), middleware.UserID(c), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]gin.H, len(views))
	for i, v := range views {
		j := tweetJSON(v.Tweet)
		j["likeCount"] = v.LikeCount
		j["isLiked"] = v.IsLiked
		out[i] = j
	}
	c.JSON(http.StatusOK, gin.H{"tweets": out})
}

func (h *Handler) updateTweet(c *gin.Context) {
	tweetID, ok := h.pathUUID(c, "tweetId")
	if !ok {
		return
	}

	var body dto.UpdateTweetDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tweet, err := h.content.UpdateTweet(c.Request.Context(), middleware.UserID(c), tweetID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tweetJSON(tweet))
}

func (h *Handler) deleteTweet(c *gin.Context) {
	tweetID, ok := h.pathUUID(c, "tweetId")
	if !ok {
		return
	}

	if err := h.content.DeleteTweet(c.Request.Context(), middleware.UserID(c), tweetID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tweet deleted"})
}

/* helpers */

func (h *Handler) issueTokens(c *gin.Context, pair authmodel.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		"accessToken",
		pair.AccessToken,
		int(pair.AccessTTL.Seconds()),
		"/",
		h.cfg.CookieDomain,
		true, // secure
		true, // httpOnly
	)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		"refreshToken",
		pair.RefreshToken,
		int(pair.RefreshTTL.Seconds()),
		"/",
		h.cfg.CookieDomain,
		true,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    int(pair.AccessTTL.Seconds()),
		"userId":       pair.UserId.String(),
	})
}

func (h *Handler) clearTokens(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", h.cfg.CookieDomain, true, true)
	c.SetCookie("refreshToken", "", -1, "/", h.cfg.CookieDomain, true, true)
}

func (h *Handler) pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case customErrors.IsInvalidCredentials(err), customErrors.IsUnauthenticated(err):
		// Generic rejection: callers must not learn which check failed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case customErrors.IsTokenReuse(err):
		// Externally identical to an invalid token; logged for security
		// monitoring.
		h.log.Warn("refresh token reuse detected", zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case customErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case customErrors.IsInvalidTarget(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target"})
	case customErrors.IsPermissionDenied(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case customErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case customErrors.IsRateLimited(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
	case customErrors.IsStoreUnavailable(err):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func userJSON(u authmodel.User) gin.H {
	// Credential hash and refresh token never leave the service.
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"username":  u.Username,
		"fullName":  u.FullName,
		"avatarUrl": u.AvatarURL,
		"createdAt": u.CreatedAt,
	}
}

func videoJSON(v model.Video) gin.H {
	return gin.H{
		"id":              v.ID,
		"ownerId":         v.OwnerID,
		"title":           v.Title,
		"description":     v.Description,
		"videoUrl":        v.VideoURL,
		"thumbnailUrl":    v.ThumbnailURL,
		"durationSeconds": v.DurationSeconds,
		"createdAt":       v.CreatedAt,
	}
}

func tweetJSON(t model.Tweet) gin.H {
	return gin.H{
		"id":        t.ID,
		"ownerId":   t.OwnerID,
		"content":   t.Content,
		"createdAt": t.CreatedAt,
	}
}

func commentJSON(cm model.Comment) gin.H {
	return gin.H{
		"id":        cm.ID,
		"videoId":   cm.VideoID,
		"ownerId":   cm.OwnerID,
		"content":   cm.Content,
		"createdAt": cm.CreatedAt,
	}
}

func summariesJSON(list []model.UserSummary) []gin.H {
	out := make([]gin.H, len(list))
	for i, s := range list {
		out[i] = gin.H{
			"id":          s.ID,
			"displayName": s.DisplayName,
			"handle":      s.Handle,
			"avatarUrl":   s.AvatarURL,
		}
	}
	return out
}

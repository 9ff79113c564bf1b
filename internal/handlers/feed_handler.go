package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/repositories"
)

// FeedHandler handles the personalized feed
type FeedHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	commentRepository repositories.CommentRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, commentRepo repositories.CommentRepository) *FeedHandler {
	return &FeedHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		commentRepository: commentRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts/feed", h.GetFeed)
}

// GetFeed returns posts authored by the accounts the caller follows, newest
// first. The caller's own posts are not part of the feed.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := userIDFromContext(c)

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	posts, err := h.postRepository.GetPostsByAuthors(c.Request().Context(), user.Following)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	views, err := buildPostViews(c.Request().Context(), posts, h.userRepository, h.commentRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, views)
}

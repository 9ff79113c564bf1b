package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/models"
	"github.com/ydahhani/ripple/backend/internal/repositories"
)

// SearchHandler handles search over usernames, post content and hashtags
type SearchHandler struct {
	userRepository    repositories.UserRepository
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *SearchHandler {
	return &SearchHandler{
		userRepository:    userRepo,
		postRepository:    postRepo,
		commentRepository: commentRepo,
	}
}

// RegisterSearchRoutes registers search-related routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

// SearchResults groups the three result categories of one query
type SearchResults struct {
	Users    []models.User `json:"users"`
	Posts    []PostView    `json:"posts"`
	Hashtags []string      `json:"hashtags"`
}

// Search performs a case-insensitive substring match of q over usernames,
// post content and hashtags.
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search query 'q' is required")
	}

	ctx := c.Request().Context()

	users, err := h.userRepository.SearchUsers(ctx, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	posts, err := h.postRepository.GetPostsByContentPattern(ctx, query, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	views, err := buildPostViews(ctx, posts, h.userRepository, h.commentRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	hashtags, err := h.postRepository.SearchHashtags(ctx, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, SearchResults{
		Users:    users,
		Posts:    views,
		Hashtags: hashtags,
	})
}

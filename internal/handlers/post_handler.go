package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/models"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// trendingLimit caps the trending-hashtags response.
const trendingLimit = 10

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	commentRepository repositories.CommentRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, commentRepo repositories.CommentRepository) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		commentRepository: commentRepo,
	}
}

// RegisterPublicRoutes registers post routes that need no authentication
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts", h.GetAllPosts)
	g.GET("/posts/trending/topics", h.GetTrendingTopics)
}

// RegisterProtectedRoutes registers post routes that require authentication
func (h *PostHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:postId", h.DeletePost)
	g.PUT("/posts/:postId/like", h.ToggleLike)
	g.GET("/posts/user/:userId", h.GetUserPosts)
}

// CreatePost creates a new post authored by the caller. Hashtags are
// extracted from the content so the trending endpoint can count them.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := userIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		Content:  req.Content,
		Image:    req.Image,
		Author:   currentUserID,
		Hashtags: extractHashtags(req.Content),
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post; only its author may do so
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := userIDFromContext(c)
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	if post.Author != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "not authorized")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted successfully"})
}

// GetAllPosts retrieves every post, newest first, with authors and comments
// resolved.
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	views, err := buildPostViews(c.Request().Context(), posts, h.userRepository, h.commentRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, views)
}

// GetUserPosts retrieves posts by a single author, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	authorID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), authorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	views, err := buildPostViews(c.Request().Context(), posts, h.userRepository, h.commentRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, views)
}

// GetTrendingTopics returns the most used hashtags
func (h *PostHandler) GetTrendingTopics(c echo.Context) error {
	hashtags, err := h.postRepository.GetTrendingHashtags(c.Request().Context(), trendingLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, hashtags)
}

// extractHashtags returns the distinct lowercased #tags in content, in order
// of first appearance.
func extractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := map[string]bool{}
	tags := []string{}
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

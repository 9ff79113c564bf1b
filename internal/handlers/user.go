package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/models"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// suggestionLimit caps the suggested-users response.
const suggestionLimit = 5

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterPublicRoutes registers user routes that need no authentication
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/:userId", h.GetUser)
	g.GET("/users/:userId/followers", h.GetFollowers)
	g.GET("/users/:userId/following", h.GetFollowing)
}

// RegisterProtectedRoutes registers user routes that require authentication
func (h *UserHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/users/suggestions", h.GetSuggestedUsers)
	g.PUT("/users/:userId", h.UpdateUser)
}

// GetUser retrieves a user profile by ID (password excluded)
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates the authenticated user's own profile
func (h *UserHandler) UpdateUser(c echo.Context) error {
	currentUserID := userIDFromContext(c)
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	if id != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "not authorized")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, user)
}

// GetFollowers returns summaries of the user's followers
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.followList(c, func(u *models.User) []primitive.ObjectID { return u.Followers })
}

// GetFollowing returns summaries of the users this user follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.followList(c, func(u *models.User) []primitive.ObjectID { return u.Following })
}

func (h *UserHandler) followList(c echo.Context, pick func(*models.User) []primitive.ObjectID) error {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), pick(user))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	summaries := make([]models.UserCompact, len(users))
	for i := range users {
		summaries[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetSuggestedUsers returns up to five users the caller does not follow yet,
// excluding the caller.
func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	currentUserID := userIDFromContext(c)
	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	exclude := append(append([]primitive.ObjectID{}, user.Following...), currentUserID)
	suggested, err := h.userRepository.GetSuggestedUsers(c.Request().Context(), exclude, suggestionLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, suggested)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/models"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler handles follow/unfollow HTTP requests. Both sides of the
// edge live as id lists on the two user documents and are updated together
// without a transaction; concurrent toggles on the same pair can race.
type FollowHandler struct {
	userRepository repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{userRepository: userRepo}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.PUT("/users/:userId/follow", h.FollowUser)
	g.PUT("/users/:userId/unfollow", h.UnfollowUser)
}

// FollowUser adds a follow edge from the caller to the target user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := userIDFromContext(c)
	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	if targetID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "you cannot follow yourself")
	}

	target, current, err := h.loadPair(c, targetID, currentUserID)
	if err != nil {
		return err
	}

	if containsID(current.Following, targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "you are already following this user")
	}

	current.Following = append(current.Following, targetID)
	target.Followers = append(target.Followers, currentUserID)

	if err := h.userRepository.UpdateUser(c.Request().Context(), current); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	if err := h.userRepository.UpdateUser(c.Request().Context(), target); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "user followed successfully"})
}

// UnfollowUser removes the follow edge; unfollowing a user you do not follow
// is a no-op success.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := userIDFromContext(c)
	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	target, current, err := h.loadPair(c, targetID, currentUserID)
	if err != nil {
		return err
	}

	current.Following = removeID(current.Following, targetID)
	target.Followers = removeID(target.Followers, currentUserID)

	if err := h.userRepository.UpdateUser(c.Request().Context(), current); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	if err := h.userRepository.UpdateUser(c.Request().Context(), target); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "user unfollowed successfully"})
}

func (h *FollowHandler) loadPair(c echo.Context, targetID, currentID primitive.ObjectID) (*models.User, *models.User, error) {
	target, err := h.userRepository.GetUserByID(c.Request().Context(), targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	current, err := h.userRepository.GetUserByID(c.Request().Context(), currentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return target, current, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

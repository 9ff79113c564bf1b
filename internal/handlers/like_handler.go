package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToggleLike flips the caller's like on a post: liking an unliked post adds
// the caller to the like list, liking again removes them. The read-modify-
// write is not transactional; concurrent toggles by the same user can race.
func (h *PostHandler) ToggleLike(c echo.Context) error {
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

	alreadyLiked := containsID(post.Likes, currentUserID)
	if alreadyLiked {
		post.Likes = removeID(post.Likes, currentUserID)
	} else {
		post.Likes = append(post.Likes, currentUserID)
	}

	if err := h.postRepository.SetLikes(c.Request().Context(), postID, post.Likes); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	message := "post liked"
	if alreadyLiked {
		message = "like removed"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": message,
		"likes":   len(post.Likes),
	})
}

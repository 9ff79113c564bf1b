package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userIDFromContext returns the authenticated caller's user id, or the zero
// ObjectID when the request carries no valid identity.
func userIDFromContext(c echo.Context) primitive.ObjectID {
	raw, ok := c.Get(middleware.ContextUserIDKey).(string)
	if !ok {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

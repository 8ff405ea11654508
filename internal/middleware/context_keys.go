package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the authenticated actor's ID.
const actorIDKey = contextKey("actorID")

// WithActorID returns a copy of ctx carrying the actor identity used for audit attribution.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// GetActorIDFromContext retrieves the authenticated actor ID from the Gin context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	if actorVal, exists := c.Get(string(actorIDKey)); exists {
		actorID, ok := actorVal.(string)
		return actorID, ok && actorID != ""
	}

	// check in the request context as well
	actorID, ok := c.Request.Context().Value(actorIDKey).(string)
	return actorID, ok && actorID != ""
}

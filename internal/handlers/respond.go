package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/cache"
	"github.com/fivemhub/backend/internal/events"
	"github.com/fivemhub/backend/internal/models"
)

const defaultPageLimit = 50

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// paginate slices an already-fetched list by the offset/limit query params.
func paginate[T any](c *gin.Context, items []T) []T {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// displayName resolves a user id for webhook embeds, falling back to the
// raw id when the lookup fails.
func displayName(userRepo UserStore, id uuid.UUID) string {
	if u, err := userRepo.GetByID(id); err == nil {
		return u.DisplayName
	}
	return id.String()
}

// publishEvent pushes a moderation event to admin dashboards. Redis pub/sub
// reaches every instance; without Redis the local hub still gets it.
func publishEvent(redis *cache.RedisClient, hub *events.Hub, event models.ModerationEvent) {
	if redis != nil {
		if err := redis.PublishModerationEvent(event); err == nil {
			return
		}
	}
	if hub != nil {
		_ = hub.Broadcast(event)
	}
}

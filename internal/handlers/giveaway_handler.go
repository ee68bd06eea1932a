package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/auth"
	"github.com/fivemhub/backend/internal/cache"
	"github.com/fivemhub/backend/internal/events"
	"github.com/fivemhub/backend/internal/middleware"
	"github.com/fivemhub/backend/internal/models"
	"github.com/fivemhub/backend/internal/notify"
	"github.com/fivemhub/backend/internal/repository"
)

type GiveawayHandler struct {
	giveawayRepo GiveawayStore
	userRepo     UserStore
	notifier     *notify.Notifier
	redis        *cache.RedisClient
	hub          *events.Hub
}

func NewGiveawayHandler(giveawayRepo GiveawayStore, userRepo UserStore, notifier *notify.Notifier, redis *cache.RedisClient, hub *events.Hub) *GiveawayHandler {
	return &GiveawayHandler{
		giveawayRepo: giveawayRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		redis:        redis,
		hub:          hub,
	}
}

// ListGiveaways returns approved giveaways with requirements and prizes,
// soonest ending first
func (h *GiveawayHandler) ListGiveaways(c *gin.Context) {
	giveaways, err := h.giveawayRepo.ListApproved()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list giveaways")
		return
	}

	page := paginate(c, giveaways)
	for i := range page {
		if err := h.giveawayRepo.Enrich(&page[i]); err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to load giveaway details")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"giveaways": page,
		"total":     len(giveaways),
	})
}

// GetGiveaway returns a single approved giveaway with its child rows
func (h *GiveawayHandler) GetGiveaway(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid giveaway id")
		return
	}

	giveaway, err := h.giveawayRepo.GetApproved(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Giveaway not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get giveaway")
		return
	}

	if err := h.giveawayRepo.Enrich(giveaway); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load giveaway details")
		return
	}

	c.JSON(http.StatusOK, giveaway)
}

// CreateGiveaway submits a new giveaway into the pending queue
func (h *GiveawayHandler) CreateGiveaway(c *gin.Context) {
	var req models.CreateGiveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	uid := middleware.CallerID(c)
	giveaway := &models.Giveaway{
		ID:          uuid.New(),
		CreatorID:   uid,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		EndsAt:      req.EndsAt,
	}

	if err := h.giveawayRepo.Create(giveaway, req.Requirements, req.Prizes); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create giveaway")
		return
	}

	if err := h.giveawayRepo.Enrich(giveaway); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load giveaway details")
		return
	}

	h.notifier.Submitted("giveaway", giveaway.ID, giveaway.Title, displayName(h.userRepo, uid))
	publishEvent(h.redis, h.hub, models.ModerationEvent{
		Type:        "submitted",
		ContentType: "giveaway",
		ContentID:   giveaway.ID,
		Title:       giveaway.Title,
		ActorID:     uid,
		At:          time.Now(),
	})

	c.JSON(http.StatusCreated, giveaway)
}

// UpdateGiveaway edits a giveaway. Requirements and prizes replace the full
// child sets when present. Editing a decided giveaway moves it back into the
// pending queue.
func (h *GiveawayHandler) UpdateGiveaway(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid giveaway id")
		return
	}

	var req models.UpdateGiveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	giveaway, err := h.giveawayRepo.FindAny(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Giveaway not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get giveaway")
		return
	}

	uid := middleware.CallerID(c)
	if giveaway.CreatorID != uid && !middleware.CallerRole(c).Can(auth.CapModerateContent) {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	req.Apply(giveaway)

	needsReapproval := giveaway.Status != models.StatusPending
	if needsReapproval {
		err = h.giveawayRepo.MoveToPending(giveaway)
	} else {
		err = h.giveawayRepo.UpdatePending(giveaway)
	}
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Giveaway not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update giveaway")
		return
	}

	if req.Requirements != nil {
		if err := h.giveawayRepo.ReplaceRequirements(giveaway.ID, *req.Requirements); err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to update requirements")
			return
		}
	}
	if req.Prizes != nil {
		if err := h.giveawayRepo.ReplacePrizes(giveaway.ID, *req.Prizes); err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to update prizes")
			return
		}
	}

	if err := h.giveawayRepo.Enrich(giveaway); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load giveaway details")
		return
	}

	if needsReapproval {
		h.notifier.Resubmitted("giveaway", giveaway.ID, giveaway.Title, displayName(h.userRepo, giveaway.CreatorID))
		publishEvent(h.redis, h.hub, models.ModerationEvent{
			Type:        "resubmitted",
			ContentType: "giveaway",
			ContentID:   giveaway.ID,
			Title:       giveaway.Title,
			ActorID:     uid,
			At:          time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"giveaway":        giveaway,
		"needsReapproval": needsReapproval,
	})
}

// DeleteGiveaway removes a giveaway and its child rows
func (h *GiveawayHandler) DeleteGiveaway(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid giveaway id")
		return
	}

	giveaway, err := h.giveawayRepo.FindAny(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Giveaway not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get giveaway")
		return
	}

	uid := middleware.CallerID(c)
	if giveaway.CreatorID != uid && !middleware.CallerRole(c).Can(auth.CapModerateContent) {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	if err := h.giveawayRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Giveaway not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete giveaway")
		return
	}

	publishEvent(h.redis, h.hub, models.ModerationEvent{
		Type:        "deleted",
		ContentType: "giveaway",
		ContentID:   id,
		Title:       giveaway.Title,
		ActorID:     uid,
		At:          time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMyGiveaways returns the caller's giveaways across all three status tables
func (h *GiveawayHandler) ListMyGiveaways(c *gin.Context) {
	giveaways, err := h.giveawayRepo.ListByCreator(middleware.CallerID(c))
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list giveaways")
		return
	}

	page := paginate(c, giveaways)
	for i := range page {
		if err := h.giveawayRepo.Enrich(&page[i]); err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to load giveaway details")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"giveaways": page,
		"total":     len(giveaways),
	})
}

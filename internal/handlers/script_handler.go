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

type ScriptHandler struct {
	scriptRepo ScriptStore
	userRepo   UserStore
	notifier   *notify.Notifier
	redis      *cache.RedisClient
	hub        *events.Hub
}

func NewScriptHandler(scriptRepo ScriptStore, userRepo UserStore, notifier *notify.Notifier, redis *cache.RedisClient, hub *events.Hub) *ScriptHandler {
	return &ScriptHandler{
		scriptRepo: scriptRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		redis:      redis,
		hub:        hub,
	}
}

// ListScripts returns the approved storefront, newest approval first
func (h *ScriptHandler) ListScripts(c *gin.Context) {
	scripts, err := h.scriptRepo.ListApproved()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list scripts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scripts": paginate(c, scripts),
		"total":   len(scripts),
	})
}

// GetScript returns a single approved script. Pending and rejected items are
// invisible here regardless of who asks.
func (h *ScriptHandler) GetScript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid script id")
		return
	}

	script, err := h.scriptRepo.GetApproved(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Script not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get script")
		return
	}

	c.JSON(http.StatusOK, script)
}

// CreateScript submits a new script into the pending queue
func (h *ScriptHandler) CreateScript(c *gin.Context) {
	var req models.CreateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	uid := middleware.CallerID(c)
	script := &models.Script{
		ID:          uuid.New(),
		SellerID:    uid,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Framework:   req.Framework,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		DownloadURL: req.DownloadURL,
	}

	if err := h.scriptRepo.Create(script); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create script")
		return
	}

	h.notifier.Submitted("script", script.ID, script.Title, displayName(h.userRepo, uid))
	publishEvent(h.redis, h.hub, models.ModerationEvent{
		Type:        "submitted",
		ContentType: "script",
		ContentID:   script.ID,
		Title:       script.Title,
		ActorID:     uid,
		At:          time.Now(),
	})

	c.JSON(http.StatusCreated, script)
}

// UpdateScript edits a script. Editing a decided script moves it back into
// the pending queue and flags the response with needsReapproval.
func (h *ScriptHandler) UpdateScript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid script id")
		return
	}

	var req models.UpdateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	script, err := h.scriptRepo.FindAny(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Script not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get script")
		return
	}

	uid := middleware.CallerID(c)
	if script.SellerID != uid && !middleware.CallerRole(c).Can(auth.CapModerateContent) {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	req.Apply(script)

	needsReapproval := script.Status != models.StatusPending
	if needsReapproval {
		err = h.scriptRepo.MoveToPending(script)
	} else {
		err = h.scriptRepo.UpdatePending(script)
	}
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Script not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update script")
		return
	}

	if needsReapproval {
		h.notifier.Resubmitted("script", script.ID, script.Title, displayName(h.userRepo, script.SellerID))
		publishEvent(h.redis, h.hub, models.ModerationEvent{
			Type:        "resubmitted",
			ContentType: "script",
			ContentID:   script.ID,
			Title:       script.Title,
			ActorID:     uid,
			At:          time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"script":          script,
		"needsReapproval": needsReapproval,
	})
}

// DeleteScript removes a script from whichever status table holds it
func (h *ScriptHandler) DeleteScript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid script id")
		return
	}

	script, err := h.scriptRepo.FindAny(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Script not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get script")
		return
	}

	uid := middleware.CallerID(c)
	if script.SellerID != uid && !middleware.CallerRole(c).Can(auth.CapModerateContent) {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	if err := h.scriptRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Script not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete script")
		return
	}

	publishEvent(h.redis, h.hub, models.ModerationEvent{
		Type:        "deleted",
		ContentType: "script",
		ContentID:   id,
		Title:       script.Title,
		ActorID:     uid,
		At:          time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMyScripts returns the caller's scripts across all three status tables
func (h *ScriptHandler) ListMyScripts(c *gin.Context) {
	scripts, err := h.scriptRepo.ListBySeller(middleware.CallerID(c))
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list scripts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scripts": paginate(c, scripts),
		"total":   len(scripts),
	})
}

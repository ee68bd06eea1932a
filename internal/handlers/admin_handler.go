package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/cache"
	"github.com/fivemhub/backend/internal/events"
	"github.com/fivemhub/backend/internal/middleware"
	"github.com/fivemhub/backend/internal/models"
	"github.com/fivemhub/backend/internal/notify"
	"github.com/fivemhub/backend/internal/repository"
)

// AdminHandler carries the moderation queue and decision endpoints plus user
// management. All routes behind it require the moderation capability; the
// user routes additionally require user management.
type AdminHandler struct {
	scriptRepo   ScriptStore
	giveawayRepo GiveawayStore
	adRepo       AdStore
	userRepo     UserStore
	notifier     *notify.Notifier
	redis        *cache.RedisClient
	hub          *events.Hub
}

func NewAdminHandler(scriptRepo ScriptStore, giveawayRepo GiveawayStore, adRepo AdStore, userRepo UserStore, notifier *notify.Notifier, redis *cache.RedisClient, hub *events.Hub) *AdminHandler {
	return &AdminHandler{
		scriptRepo:   scriptRepo,
		giveawayRepo: giveawayRepo,
		adRepo:       adRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		redis:        redis,
		hub:          hub,
	}
}

// ListPending returns the moderation queues for all three content types,
// oldest submission first
func (h *AdminHandler) ListPending(c *gin.Context) {
	scripts, err := h.scriptRepo.ListPending()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list pending scripts")
		return
	}

	giveaways, err := h.giveawayRepo.ListPending()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list pending giveaways")
		return
	}
	for i := range giveaways {
		if err := h.giveawayRepo.Enrich(&giveaways[i]); err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to load giveaway details")
			return
		}
	}

	ads, err := h.adRepo.ListPending()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list pending ads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scripts":   scripts,
		"giveaways": giveaways,
		"ads":       ads,
	})
}

// bindDecision validates the decision body. Rejections need a reason.
func bindDecision(c *gin.Context) (*models.DecisionRequest, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid id")
		return nil, uuid.Nil, false
	}

	var req models.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return nil, uuid.Nil, false
	}

	if req.Status == models.StatusRejected && strings.TrimSpace(req.Reason) == "" {
		ErrorResponse(c, http.StatusBadRequest, "Rejection reason is required")
		return nil, uuid.Nil, false
	}

	return &req, id, true
}

// DecideScript approves or rejects a pending script
func (h *AdminHandler) DecideScript(c *gin.Context) {
	req, id, ok := bindDecision(c)
	if !ok {
		return
	}

	adminID := middleware.CallerID(c)

	var script *models.Script
	var err error
	if req.Status == models.StatusApproved {
		script, err = h.scriptRepo.Approve(id, adminID, req.AdminNotes)
	} else {
		script, err = h.scriptRepo.Reject(id, adminID, req.Reason, req.AdminNotes)
	}
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Script not found or already decided")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to decide script")
		return
	}

	h.announce("script", script.ID, script.Title, script.SellerID, adminID, req)

	c.JSON(http.StatusOK, models.DecisionResponse{
		Success: true,
		Message: decisionMessage("Script", req.Status),
	})
}

// DecideGiveaway approves or rejects a pending giveaway
func (h *AdminHandler) DecideGiveaway(c *gin.Context) {
	req, id, ok := bindDecision(c)
	if !ok {
		return
	}

	adminID := middleware.CallerID(c)

	var giveaway *models.Giveaway
	var err error
	if req.Status == models.StatusApproved {
		giveaway, err = h.giveawayRepo.Approve(id, adminID, req.AdminNotes)
	} else {
		giveaway, err = h.giveawayRepo.Reject(id, adminID, req.Reason, req.AdminNotes)
	}
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Giveaway not found or already decided")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to decide giveaway")
		return
	}

	h.announce("giveaway", giveaway.ID, giveaway.Title, giveaway.CreatorID, adminID, req)

	c.JSON(http.StatusOK, models.DecisionResponse{
		Success: true,
		Message: decisionMessage("Giveaway", req.Status),
	})
}

// DecideAd approves or rejects a pending ad
func (h *AdminHandler) DecideAd(c *gin.Context) {
	req, id, ok := bindDecision(c)
	if !ok {
		return
	}

	adminID := middleware.CallerID(c)

	var ad *models.Ad
	var err error
	if req.Status == models.StatusApproved {
		ad, err = h.adRepo.Approve(id, adminID, req.AdminNotes)
	} else {
		ad, err = h.adRepo.Reject(id, adminID, req.Reason, req.AdminNotes)
	}
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Ad not found or already decided")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to decide ad")
		return
	}

	h.announce("ad", ad.ID, ad.Title, ad.CreatedBy, adminID, req)

	c.JSON(http.StatusOK, models.DecisionResponse{
		Success: true,
		Message: decisionMessage("Ad", req.Status),
	})
}

func decisionMessage(label string, status models.Status) string {
	if status == models.StatusApproved {
		return label + " approved successfully"
	}
	return label + " rejected successfully"
}

// announce fires the decision webhook and dashboard event
func (h *AdminHandler) announce(kind string, id uuid.UUID, title string, creatorID, adminID uuid.UUID, req *models.DecisionRequest) {
	creator := displayName(h.userRepo, creatorID)
	admin := displayName(h.userRepo, adminID)

	eventType := "approved"
	if req.Status == models.StatusApproved {
		h.notifier.Approved(kind, id, title, creator, admin)
	} else {
		eventType = "rejected"
		h.notifier.Rejected(kind, id, title, creator, admin, req.Reason)
	}

	publishEvent(h.redis, h.hub, models.ModerationEvent{
		Type:        eventType,
		ContentType: kind,
		ContentID:   id,
		Title:       title,
		ActorID:     adminID,
		At:          time.Now(),
	})
}

// ListUsers returns all accounts for the user management screen
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.List()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": paginate(c, users),
		"total": len(users),
	})
}

// UpdateUserRole changes an account's role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Role.Valid() {
		ErrorResponse(c, http.StatusBadRequest, "Unknown role")
		return
	}

	if err := h.userRepo.UpdateRole(id, req.Role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

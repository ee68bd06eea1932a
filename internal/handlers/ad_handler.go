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

type AdHandler struct {
	adRepo    AdStore
	orderRepo OrderStore
	userRepo  UserStore
	payments  PaymentProvider
	notifier  *notify.Notifier
	redis     *cache.RedisClient
	hub       *events.Hub
}

func NewAdHandler(adRepo AdStore, orderRepo OrderStore, userRepo UserStore, paymentsService PaymentProvider, notifier *notify.Notifier, redis *cache.RedisClient, hub *events.Hub) *AdHandler {
	return &AdHandler{
		adRepo:    adRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		payments:  paymentsService,
		notifier:  notifier,
		redis:     redis,
		hub:       hub,
	}
}

// ListAds returns live ads, optionally filtered by the slot query param
func (h *AdHandler) ListAds(c *gin.Context) {
	ads, err := h.adRepo.ListApproved(c.Query("slot"))
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list ads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ads":   paginate(c, ads),
		"total": len(ads),
	})
}

// CreateAd submits a new ad into the pending queue
func (h *AdHandler) CreateAd(c *gin.Context) {
	var req models.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	uid := middleware.CallerID(c)
	ad := &models.Ad{
		ID:           uuid.New(),
		CreatedBy:    uid,
		Title:        req.Title,
		ImageURL:     req.ImageURL,
		LinkURL:      req.LinkURL,
		Slot:         req.Slot,
		DurationDays: req.DurationDays,
	}

	if err := h.adRepo.Create(ad); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create ad")
		return
	}

	h.notifier.Submitted("ad", ad.ID, ad.Title, displayName(h.userRepo, uid))
	publishEvent(h.redis, h.hub, models.ModerationEvent{
		Type:        "submitted",
		ContentType: "ad",
		ContentID:   ad.ID,
		Title:       ad.Title,
		ActorID:     uid,
		At:          time.Now(),
	})

	c.JSON(http.StatusCreated, ad)
}

// UpdateAd edits an ad. Editing a decided ad moves it back into the pending
// queue and flags the response with needsReapproval.
func (h *AdHandler) UpdateAd(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid ad id")
		return
	}

	var req models.UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ad, err := h.adRepo.FindAny(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Ad not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get ad")
		return
	}

	uid := middleware.CallerID(c)
	if ad.CreatedBy != uid && !middleware.CallerRole(c).Can(auth.CapModerateContent) {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	req.Apply(ad)

	needsReapproval := ad.Status != models.StatusPending
	if needsReapproval {
		err = h.adRepo.MoveToPending(ad)
	} else {
		err = h.adRepo.UpdatePending(ad)
	}
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Ad not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update ad")
		return
	}

	if needsReapproval {
		h.notifier.Resubmitted("ad", ad.ID, ad.Title, displayName(h.userRepo, ad.CreatedBy))
		publishEvent(h.redis, h.hub, models.ModerationEvent{
			Type:        "resubmitted",
			ContentType: "ad",
			ContentID:   ad.ID,
			Title:       ad.Title,
			ActorID:     uid,
			At:          time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"ad":              ad,
		"needsReapproval": needsReapproval,
	})
}

// DeleteAd removes an ad from whichever status table holds it
func (h *AdHandler) DeleteAd(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid ad id")
		return
	}

	ad, err := h.adRepo.FindAny(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Ad not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get ad")
		return
	}

	uid := middleware.CallerID(c)
	if ad.CreatedBy != uid && !middleware.CallerRole(c).Can(auth.CapModerateContent) {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	if err := h.adRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Ad not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete ad")
		return
	}

	publishEvent(h.redis, h.hub, models.ModerationEvent{
		Type:        "deleted",
		ContentType: "ad",
		ContentID:   id,
		Title:       ad.Title,
		ActorID:     uid,
		At:          time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMyAds returns the caller's ads across all three status tables
func (h *AdHandler) ListMyAds(c *gin.Context) {
	ads, err := h.adRepo.ListByCreator(middleware.CallerID(c))
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list ads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ads":   paginate(c, ads),
		"total": len(ads),
	})
}

// GetPaymentConfig exposes the PayPal client id the frontend needs to render
// the checkout buttons
func (h *AdHandler) GetPaymentConfig(c *gin.Context) {
	if h.payments == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client_id": h.payments.ClientID(),
		"currency":  h.payments.Currency(),
	})
}

// CreateOrder creates a PayPal order for the ad's slot and duration
func (h *AdHandler) CreateOrder(c *gin.Context) {
	if h.payments == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid ad id")
		return
	}

	ad, err := h.adRepo.FindAny(id)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Ad not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get ad")
		return
	}

	uid := middleware.CallerID(c)
	if ad.CreatedBy != uid {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	orderID, cents, err := h.payments.CreateAdOrder(c.Request.Context(), ad)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	order := &models.AdOrder{
		ID:          uuid.New(),
		AdID:        ad.ID,
		OrderID:     orderID,
		PayerID:     &uid,
		AmountCents: cents,
		Currency:    h.payments.Currency(),
		Status:      "created",
	}
	if err := h.orderRepo.Create(order); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to record order")
		return
	}

	if err := h.adRepo.SetOrderID(ad.ID, orderID); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to record order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CaptureOrder captures a previously created PayPal order
func (h *AdHandler) CaptureOrder(c *gin.Context) {
	if h.payments == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	orderID := c.Param("orderID")
	order, err := h.orderRepo.GetByOrderID(orderID)
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get order")
		return
	}

	uid := middleware.CallerID(c)
	if order.PayerID == nil || *order.PayerID != uid {
		ErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	completed, err := h.payments.CaptureAdOrder(c.Request.Context(), orderID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to capture order")
		return
	}

	status := "failed"
	if completed {
		status = "completed"
	}
	if err := h.orderRepo.UpdateStatus(orderID, status); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to record capture")
		return
	}
	order.Status = status

	c.JSON(http.StatusOK, gin.H{
		"success": completed,
		"order":   order,
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/config"
	"github.com/fivemhub/backend/internal/auth"
	"github.com/fivemhub/backend/internal/models"
	"github.com/fivemhub/backend/internal/notify"
)

func TestCaptureOrder_NonPayerDenied(t *testing.T) {
	payer := uuid.New()
	orders := newFakeOrderStore(&models.AdOrder{
		ID:          uuid.New(),
		AdID:        uuid.New(),
		OrderID:     "PAYPAL-ORDER",
		PayerID:     &payer,
		AmountCents: 500,
		Currency:    "USD",
		Status:      "created",
	})
	pay := &fakePayments{captureResult: true}
	h := NewAdHandler(nil, orders, nil, pay, notify.New(config.DiscordConfig{}), nil, nil)

	c, w := authedContext(t, http.MethodPost, `{}`, uuid.New(), auth.RoleVerifiedCreator)
	c.Params = gin.Params{{Key: "orderID", Value: "PAYPAL-ORDER"}}
	h.CaptureOrder(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if len(pay.captured) != 0 {
		t.Error("expected no capture attempt for a non-payer")
	}
	if len(orders.statusUpdates) != 0 {
		t.Error("expected no status update for a denied capture")
	}
	if orders.orders["PAYPAL-ORDER"].Status != "created" {
		t.Error("expected order status unchanged")
	}
}

func TestCaptureOrder_MissingPayerDenied(t *testing.T) {
	orders := newFakeOrderStore(&models.AdOrder{
		ID:          uuid.New(),
		AdID:        uuid.New(),
		OrderID:     "PAYPAL-ORDER",
		AmountCents: 500,
		Currency:    "USD",
		Status:      "created",
	})
	pay := &fakePayments{captureResult: true}
	h := NewAdHandler(nil, orders, nil, pay, notify.New(config.DiscordConfig{}), nil, nil)

	c, w := authedContext(t, http.MethodPost, `{}`, uuid.New(), auth.RoleVerifiedCreator)
	c.Params = gin.Params{{Key: "orderID", Value: "PAYPAL-ORDER"}}
	h.CaptureOrder(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if len(pay.captured) != 0 {
		t.Error("expected no capture attempt without a recorded payer")
	}
}

func TestCaptureOrder_PayerCompletes(t *testing.T) {
	payer := uuid.New()
	orders := newFakeOrderStore(&models.AdOrder{
		ID:          uuid.New(),
		AdID:        uuid.New(),
		OrderID:     "PAYPAL-ORDER",
		PayerID:     &payer,
		AmountCents: 500,
		Currency:    "USD",
		Status:      "created",
	})
	pay := &fakePayments{captureResult: true}
	h := NewAdHandler(nil, orders, nil, pay, notify.New(config.DiscordConfig{}), nil, nil)

	c, w := authedContext(t, http.MethodPost, `{}`, payer, auth.RoleVerifiedCreator)
	c.Params = gin.Params{{Key: "orderID", Value: "PAYPAL-ORDER"}}
	h.CaptureOrder(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool           `json:"success"`
		Order   models.AdOrder `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected a successful capture")
	}
	if resp.Order.Status != "completed" {
		t.Errorf("expected order status completed, got %q", resp.Order.Status)
	}

	if len(pay.captured) != 1 || pay.captured[0] != "PAYPAL-ORDER" {
		t.Errorf("expected exactly one capture of PAYPAL-ORDER, got %v", pay.captured)
	}
	if orders.orders["PAYPAL-ORDER"].Status != "completed" {
		t.Error("expected stored order marked completed")
	}
}

func TestCaptureOrder_FailedCaptureRecorded(t *testing.T) {
	payer := uuid.New()
	orders := newFakeOrderStore(&models.AdOrder{
		ID:          uuid.New(),
		AdID:        uuid.New(),
		OrderID:     "PAYPAL-ORDER",
		PayerID:     &payer,
		AmountCents: 500,
		Currency:    "USD",
		Status:      "created",
	})
	pay := &fakePayments{captureResult: false}
	h := NewAdHandler(nil, orders, nil, pay, notify.New(config.DiscordConfig{}), nil, nil)

	c, w := authedContext(t, http.MethodPost, `{}`, payer, auth.RoleVerifiedCreator)
	c.Params = gin.Params{{Key: "orderID", Value: "PAYPAL-ORDER"}}
	h.CaptureOrder(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("expected capture reported as unsuccessful")
	}
	if orders.orders["PAYPAL-ORDER"].Status != "failed" {
		t.Error("expected stored order marked failed")
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad is a purchasable ad-slot placement.
type Ad struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CreatedBy     uuid.UUID `json:"created_by" db:"created_by"`
	Title         string    `json:"title" db:"title"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	LinkURL       string    `json:"link_url" db:"link_url"`
	Slot          string    `json:"slot" db:"slot"`
	DurationDays  int       `json:"duration_days" db:"duration_days"`
	PayPalOrderID *string   `json:"paypal_order_id,omitempty" db:"paypal_order_id"`
	AdminNotes    *string   `json:"admin_notes,omitempty" db:"admin_notes"`

	Status          Status     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateAdRequest struct {
	Title        string `json:"title" binding:"required"`
	ImageURL     string `json:"image_url" binding:"required,url"`
	LinkURL      string `json:"link_url" binding:"required,url"`
	Slot         string `json:"slot" binding:"required"`
	DurationDays int    `json:"duration_days" binding:"required,min=1,max=90"`
}

// UpdateAdRequest carries partial updates; nil means "leave unchanged".
type UpdateAdRequest struct {
	Title        *string `json:"title,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	LinkURL      *string `json:"link_url,omitempty"`
	Slot         *string `json:"slot,omitempty"`
	DurationDays *int    `json:"duration_days,omitempty"`
}

func (r *UpdateAdRequest) Apply(a *Ad) {
	if r.Title != nil {
		a.Title = *r.Title
	}
	if r.ImageURL != nil {
		a.ImageURL = *r.ImageURL
	}
	if r.LinkURL != nil {
		a.LinkURL = *r.LinkURL
	}
	if r.Slot != nil {
		a.Slot = *r.Slot
	}
	if r.DurationDays != nil {
		a.DurationDays = *r.DurationDays
	}
}

// AdOrder records a PayPal order for an ad slot.
type AdOrder struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AdID        uuid.UUID  `json:"ad_id" db:"ad_id"`
	OrderID     string     `json:"order_id" db:"order_id"`
	PayerID     *uuid.UUID `json:"payer_id,omitempty" db:"payer_id"`
	AmountCents int        `json:"amount_cents" db:"amount_cents"`
	Currency    string     `json:"currency" db:"currency"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

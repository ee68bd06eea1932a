package models

import (
	"time"

	"github.com/google/uuid"
)

// Script is a marketplace script listing. The decision fields are populated
// depending on which status table the row was read from.
type Script struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SellerID    uuid.UUID `json:"seller_id" db:"seller_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	PriceCents  int       `json:"price_cents" db:"price_cents"`
	Framework   *string   `json:"framework,omitempty" db:"framework"`
	Category    *string   `json:"category,omitempty" db:"category"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`
	DownloadURL *string   `json:"download_url,omitempty" db:"download_url"`
	AdminNotes  *string   `json:"admin_notes,omitempty" db:"admin_notes"`

	Status          Status     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateScriptRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	PriceCents  int     `json:"price_cents" binding:"min=0"`
	Framework   *string `json:"framework,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	DownloadURL *string `json:"download_url,omitempty"`
}

// UpdateScriptRequest carries partial updates; nil means "leave unchanged".
type UpdateScriptRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int    `json:"price_cents,omitempty"`
	Framework   *string `json:"framework,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	DownloadURL *string `json:"download_url,omitempty"`
}

// Apply merges the non-nil fields into the script's content fields.
func (r *UpdateScriptRequest) Apply(s *Script) {
	if r.Title != nil {
		s.Title = *r.Title
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.PriceCents != nil {
		s.PriceCents = *r.PriceCents
	}
	if r.Framework != nil {
		s.Framework = r.Framework
	}
	if r.Category != nil {
		s.Category = r.Category
	}
	if r.ImageURL != nil {
		s.ImageURL = r.ImageURL
	}
	if r.DownloadURL != nil {
		s.DownloadURL = r.DownloadURL
	}
}

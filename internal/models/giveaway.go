package models

import (
	"time"

	"github.com/google/uuid"
)

// Giveaway is a community giveaway. Requirements and prizes live in child
// tables keyed by the giveaway id, which is stable across status moves.
type Giveaway struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CreatorID   uuid.UUID `json:"creator_id" db:"creator_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`
	EndsAt      time.Time `json:"ends_at" db:"ends_at"`
	AdminNotes  *string   `json:"admin_notes,omitempty" db:"admin_notes"`

	Status          Status     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Requirements []GiveawayRequirement `json:"requirements,omitempty"`
	Prizes       []GiveawayPrize       `json:"prizes,omitempty"`
}

type GiveawayRequirement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GiveawayID  uuid.UUID `json:"giveaway_id" db:"giveaway_id"`
	Requirement string    `json:"requirement" db:"requirement"`
	Position    int       `json:"position" db:"position"`
}

type GiveawayPrize struct {
	ID         uuid.UUID `json:"id" db:"id"`
	GiveawayID uuid.UUID `json:"giveaway_id" db:"giveaway_id"`
	Name       string    `json:"name" db:"name"`
	Place      int       `json:"place" db:"place"`
}

type CreateGiveawayRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description" binding:"required"`
	ImageURL     *string   `json:"image_url,omitempty"`
	EndsAt       time.Time `json:"ends_at" binding:"required"`
	Requirements []string  `json:"requirements,omitempty"`
	Prizes       []string  `json:"prizes,omitempty"`
}

// UpdateGiveawayRequest carries partial updates; nil means "leave unchanged".
// Requirements/Prizes replace the full child sets when present.
type UpdateGiveawayRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	Requirements *[]string  `json:"requirements,omitempty"`
	Prizes       *[]string  `json:"prizes,omitempty"`
}

func (r *UpdateGiveawayRequest) Apply(g *Giveaway) {
	if r.Title != nil {
		g.Title = *r.Title
	}
	if r.Description != nil {
		g.Description = *r.Description
	}
	if r.ImageURL != nil {
		g.ImageURL = r.ImageURL
	}
	if r.EndsAt != nil {
		g.EndsAt = *r.EndsAt
	}
}

package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/auth"
	"github.com/fivemhub/backend/internal/models"
)

// Store interfaces cover exactly what the handlers call on the repositories.
// The concrete repository types satisfy them; tests substitute in-memory
// fakes to exercise lifecycle behavior without Postgres.

type ScriptStore interface {
	Create(s *models.Script) error
	GetApproved(id uuid.UUID) (*models.Script, error)
	FindAny(id uuid.UUID) (*models.Script, error)
	ListPending() ([]models.Script, error)
	ListApproved() ([]models.Script, error)
	ListBySeller(sellerID uuid.UUID) ([]models.Script, error)
	Approve(id, adminID uuid.UUID, notes *string) (*models.Script, error)
	Reject(id, adminID uuid.UUID, reason string, notes *string) (*models.Script, error)
	UpdatePending(s *models.Script) error
	MoveToPending(s *models.Script) error
	Delete(id uuid.UUID) error
}

type GiveawayStore interface {
	Create(g *models.Giveaway, requirements, prizes []string) error
	GetApproved(id uuid.UUID) (*models.Giveaway, error)
	FindAny(id uuid.UUID) (*models.Giveaway, error)
	ListPending() ([]models.Giveaway, error)
	ListApproved() ([]models.Giveaway, error)
	ListByCreator(creatorID uuid.UUID) ([]models.Giveaway, error)
	Approve(id, adminID uuid.UUID, notes *string) (*models.Giveaway, error)
	Reject(id, adminID uuid.UUID, reason string, notes *string) (*models.Giveaway, error)
	UpdatePending(g *models.Giveaway) error
	MoveToPending(g *models.Giveaway) error
	ReplaceRequirements(giveawayID uuid.UUID, requirements []string) error
	ReplacePrizes(giveawayID uuid.UUID, prizes []string) error
	Enrich(g *models.Giveaway) error
	Delete(id uuid.UUID) error
}

type AdStore interface {
	Create(a *models.Ad) error
	FindAny(id uuid.UUID) (*models.Ad, error)
	ListPending() ([]models.Ad, error)
	ListApproved(slot string) ([]models.Ad, error)
	ListByCreator(creatorID uuid.UUID) ([]models.Ad, error)
	Approve(id, adminID uuid.UUID, notes *string) (*models.Ad, error)
	Reject(id, adminID uuid.UUID, reason string, notes *string) (*models.Ad, error)
	UpdatePending(a *models.Ad) error
	MoveToPending(a *models.Ad) error
	SetOrderID(id uuid.UUID, orderID string) error
	Delete(id uuid.UUID) error
}

type OrderStore interface {
	Create(o *models.AdOrder) error
	GetByOrderID(orderID string) (*models.AdOrder, error)
	UpdateStatus(orderID, status string) error
}

type UserStore interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List() ([]models.User, error)
	UpdateRole(id uuid.UUID, role auth.Role) error
}

// PaymentProvider is the slice of the PayPal service the ad handler needs.
type PaymentProvider interface {
	ClientID() string
	Currency() string
	CreateAdOrder(ctx context.Context, a *models.Ad) (string, int, error)
	CaptureAdOrder(ctx context.Context, orderID string) (bool, error)
}

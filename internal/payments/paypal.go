package payments

import (
	"context"
	"fmt"

	"github.com/plutov/paypal/v4"

	"github.com/fivemhub/backend/config"
	"github.com/fivemhub/backend/internal/models"
)

// Service wraps the PayPal REST client for ad-slot purchases.
type Service struct {
	client   *paypal.Client
	clientID string
	currency string
	perDay   int
}

// New creates the PayPal service and fetches an initial access token.
// Returns an error when credentials are missing; callers treat a nil service
// as "payments disabled".
func New(cfg config.PayPalConfig, ads config.AdsConfig) (*Service, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("paypal credentials not configured")
	}

	base := paypal.APIBaseSandBox
	if cfg.Live {
		base = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(cfg.ClientID, cfg.Secret, base)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal client: %w", err)
	}

	if _, err := client.GetAccessToken(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to get paypal access token: %w", err)
	}

	return &Service{
		client:   client,
		clientID: cfg.ClientID,
		currency: ads.Currency,
		perDay:   ads.SlotPriceCentsPerDay,
	}, nil
}

// ClientID returns the public client id the frontend needs to render the
// PayPal buttons.
func (s *Service) ClientID() string {
	return s.clientID
}

// Currency returns the configured checkout currency.
func (s *Service) Currency() string {
	return s.currency
}

// PriceCents returns the slot price for an ad's duration.
func (s *Service) PriceCents(a *models.Ad) int {
	return s.perDay * a.DurationDays
}

// CreateAdOrder creates a capture-intent order for the ad slot and returns
// the PayPal order id.
func (s *Service) CreateAdOrder(ctx context.Context, a *models.Ad) (string, int, error) {
	cents := s.PriceCents(a)
	value := fmt.Sprintf("%d.%02d", cents/100, cents%100)

	units := []paypal.PurchaseUnitRequest{
		{
			ReferenceID: a.ID.String(),
			Description: fmt.Sprintf("Ad slot %s for %d days", a.Slot, a.DurationDays),
			Amount: &paypal.PurchaseUnitAmount{
				Currency: s.currency,
				Value:    value,
			},
		},
	}

	order, err := s.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create paypal order: %w", err)
	}

	return order.ID, cents, nil
}

// CaptureAdOrder captures a previously created order and reports whether
// payment completed.
func (s *Service) CaptureAdOrder(ctx context.Context, orderID string) (bool, error) {
	capture, err := s.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to capture paypal order: %w", err)
	}

	return capture.Status == "COMPLETED", nil
}

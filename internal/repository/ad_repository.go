package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/database"
	"github.com/fivemhub/backend/internal/models"
)

// AdRepository manages the pending/approved/rejected ad tables.
type AdRepository struct {
	db *database.DB
}

func NewAdRepository(db *database.DB) *AdRepository {
	return &AdRepository{db: db}
}

func scanPendingAd(sc scanner) (*models.Ad, error) {
	a := &models.Ad{Status: models.StatusPending}
	err := sc.Scan(
		&a.ID,
		&a.CreatedBy,
		&a.Title,
		&a.ImageURL,
		&a.LinkURL,
		&a.Slot,
		&a.DurationDays,
		&a.PayPalOrderID,
		&a.AdminNotes,
		&a.SubmittedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanApprovedAd(sc scanner) (*models.Ad, error) {
	a := &models.Ad{Status: models.StatusApproved}
	err := sc.Scan(
		&a.ID,
		&a.CreatedBy,
		&a.Title,
		&a.ImageURL,
		&a.LinkURL,
		&a.Slot,
		&a.DurationDays,
		&a.PayPalOrderID,
		&a.AdminNotes,
		&a.ApprovedAt,
		&a.ApprovedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanRejectedAd(sc scanner) (*models.Ad, error) {
	a := &models.Ad{Status: models.StatusRejected}
	err := sc.Scan(
		&a.ID,
		&a.CreatedBy,
		&a.Title,
		&a.ImageURL,
		&a.LinkURL,
		&a.Slot,
		&a.DurationDays,
		&a.PayPalOrderID,
		&a.AdminNotes,
		&a.RejectedAt,
		&a.RejectedBy,
		&a.RejectionReason,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new submission into pending_ads
func (r *AdRepository) Create(a *models.Ad) error {
	query := `
		INSERT INTO pending_ads (id, created_by, title, image_url, link_url, slot, duration_days, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, submitted_at, created_at
	`

	err := r.db.QueryRow(
		query,
		a.ID,
		a.CreatedBy,
		a.Title,
		a.ImageURL,
		a.LinkURL,
		a.Slot,
		a.DurationDays,
	).Scan(&a.ID, &a.SubmittedAt, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pending ad: %w", err)
	}

	a.Status = models.StatusPending
	return nil
}

// GetPending retrieves an ad from pending_ads
func (r *AdRepository) GetPending(id uuid.UUID) (*models.Ad, error) {
	query := `
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, submitted_at, created_at
		FROM pending_ads
		WHERE id = $1
	`

	a, err := scanPendingAd(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending ad: %w", err)
	}
	return a, nil
}

// GetApproved retrieves an ad from approved_ads
func (r *AdRepository) GetApproved(id uuid.UUID) (*models.Ad, error) {
	query := `
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, approved_at, approved_by, created_at
		FROM approved_ads
		WHERE id = $1
	`

	a, err := scanApprovedAd(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approved ad: %w", err)
	}
	return a, nil
}

// GetRejected retrieves an ad from rejected_ads
func (r *AdRepository) GetRejected(id uuid.UUID) (*models.Ad, error) {
	query := `
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, rejected_at, rejected_by, rejection_reason, created_at
		FROM rejected_ads
		WHERE id = $1
	`

	a, err := scanRejectedAd(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rejected ad: %w", err)
	}
	return a, nil
}

// FindAny locates an ad in whichever status table currently holds it
func (r *AdRepository) FindAny(id uuid.UUID) (*models.Ad, error) {
	if a, err := r.GetPending(id); err == nil {
		return a, nil
	} else if err != ErrNotFound {
		return nil, err
	}
	if a, err := r.GetApproved(id); err == nil {
		return a, nil
	} else if err != ErrNotFound {
		return nil, err
	}
	return r.GetRejected(id)
}

// ListPending returns the moderation queue, oldest first
func (r *AdRepository) ListPending() ([]models.Ad, error) {
	query := `
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, submitted_at, created_at
		FROM pending_ads
		ORDER BY submitted_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending ads: %w", err)
	}
	defer rows.Close()

	ads := []models.Ad{}
	for rows.Next() {
		a, err := scanPendingAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending ad: %w", err)
		}
		ads = append(ads, *a)
	}
	return ads, nil
}

// ListApproved returns live ads, optionally filtered by slot
func (r *AdRepository) ListApproved(slot string) ([]models.Ad, error) {
	query := `
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, approved_at, approved_by, created_at
		FROM approved_ads
	`
	args := []any{}
	if slot != "" {
		query += ` WHERE slot = $1`
		args = append(args, slot)
	}
	query += ` ORDER BY approved_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved ads: %w", err)
	}
	defer rows.Close()

	ads := []models.Ad{}
	for rows.Next() {
		a, err := scanApprovedAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approved ad: %w", err)
		}
		ads = append(ads, *a)
	}
	return ads, nil
}

// ListByCreator returns a user's ads across all three status tables
func (r *AdRepository) ListByCreator(creatorID uuid.UUID) ([]models.Ad, error) {
	ads := []models.Ad{}

	rows, err := r.db.Query(`
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, submitted_at, created_at
		FROM pending_ads
		WHERE created_by = $1
		ORDER BY submitted_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator's pending ads: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanPendingAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending ad: %w", err)
		}
		ads = append(ads, *a)
	}

	rows, err = r.db.Query(`
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, approved_at, approved_by, created_at
		FROM approved_ads
		WHERE created_by = $1
		ORDER BY approved_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator's approved ads: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanApprovedAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approved ad: %w", err)
		}
		ads = append(ads, *a)
	}

	rows, err = r.db.Query(`
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, rejected_at, rejected_by, rejection_reason, created_at
		FROM rejected_ads
		WHERE created_by = $1
		ORDER BY rejected_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator's rejected ads: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanRejectedAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rejected ad: %w", err)
		}
		ads = append(ads, *a)
	}

	return ads, nil
}

// Approve moves a pending ad into approved_ads
func (r *AdRepository) Approve(id, adminID uuid.UUID, notes *string) (*models.Ad, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, submitted_at, created_at
		FROM pending_ads
		WHERE id = $1
		FOR UPDATE
	`, id)
	a, err := scanPendingAd(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending ad: %w", err)
	}

	if notes != nil {
		a.AdminNotes = notes
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO approved_ads (id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, approved_at, approved_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.ID, a.CreatedBy, a.Title, a.ImageURL, a.LinkURL, a.Slot, a.DurationDays, a.PayPalOrderID, a.AdminNotes, now, adminID, a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert approved ad: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM pending_ads WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete pending ad: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	a.Status = models.StatusApproved
	a.SubmittedAt = nil
	a.ApprovedAt = &now
	a.ApprovedBy = &adminID
	return a, nil
}

// Reject moves a pending ad into rejected_ads with the reason
func (r *AdRepository) Reject(id, adminID uuid.UUID, reason string, notes *string) (*models.Ad, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, submitted_at, created_at
		FROM pending_ads
		WHERE id = $1
		FOR UPDATE
	`, id)
	a, err := scanPendingAd(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending ad: %w", err)
	}

	if notes != nil {
		a.AdminNotes = notes
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO rejected_ads (id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, admin_notes, rejected_at, rejected_by, rejection_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, a.ID, a.CreatedBy, a.Title, a.ImageURL, a.LinkURL, a.Slot, a.DurationDays, a.PayPalOrderID, a.AdminNotes, now, adminID, reason, a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rejected ad: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM pending_ads WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete pending ad: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rejection: %w", err)
	}

	a.Status = models.StatusRejected
	a.SubmittedAt = nil
	a.RejectedAt = &now
	a.RejectedBy = &adminID
	a.RejectionReason = &reason
	return a, nil
}

// UpdatePending updates a pending ad's content fields in place
func (r *AdRepository) UpdatePending(a *models.Ad) error {
	query := `
		UPDATE pending_ads
		SET title = $1, image_url = $2, link_url = $3, slot = $4, duration_days = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(query, a.Title, a.ImageURL, a.LinkURL, a.Slot, a.DurationDays, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update pending ad: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// MoveToPending moves an approved or rejected ad back into the pending queue
func (r *AdRepository) MoveToPending(a *models.Ad) error {
	var source string
	switch a.Status {
	case models.StatusApproved:
		source = "approved_ads"
	case models.StatusRejected:
		source = "rejected_ads"
	default:
		return fmt.Errorf("ad %s is not in a decided state", a.ID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var submittedAt time.Time
	err = tx.QueryRow(`
		INSERT INTO pending_ads (id, created_by, title, image_url, link_url, slot, duration_days, paypal_order_id, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)
		RETURNING submitted_at
	`, a.ID, a.CreatedBy, a.Title, a.ImageURL, a.LinkURL, a.Slot, a.DurationDays, a.PayPalOrderID, a.CreatedAt).Scan(&submittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pending ad: %w", err)
	}

	result, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, source), a.ID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", source, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit move to pending: %w", err)
	}

	a.Status = models.StatusPending
	a.SubmittedAt = &submittedAt
	a.AdminNotes = nil
	a.ApprovedAt = nil
	a.ApprovedBy = nil
	a.RejectedAt = nil
	a.RejectedBy = nil
	a.RejectionReason = nil
	return nil
}

// SetOrderID stamps the PayPal order id on an ad in whichever table holds it
func (r *AdRepository) SetOrderID(id uuid.UUID, orderID string) error {
	total := int64(0)
	for _, table := range []string{"pending_ads", "approved_ads", "rejected_ads"} {
		result, err := r.db.Exec(fmt.Sprintf(`UPDATE %s SET paypal_order_id = $1 WHERE id = $2`, table), orderID, id)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", table, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		total += rows
	}

	if total == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an ad from whichever status table holds it
func (r *AdRepository) Delete(id uuid.UUID) error {
	total := int64(0)
	for _, table := range []string{"pending_ads", "approved_ads", "rejected_ads"} {
		result, err := r.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
		if err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		total += rows
	}

	if total == 0 {
		return ErrNotFound
	}
	return nil
}

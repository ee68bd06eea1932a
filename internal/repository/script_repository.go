package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/database"
	"github.com/fivemhub/backend/internal/models"
)

// ScriptRepository manages the pending/approved/rejected script tables.
// Every table-to-table move runs inside one transaction so an id is never
// visible in zero or two tables.
type ScriptRepository struct {
	db *database.DB
}

func NewScriptRepository(db *database.DB) *ScriptRepository {
	return &ScriptRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPendingScript(sc scanner) (*models.Script, error) {
	s := &models.Script{Status: models.StatusPending}
	err := sc.Scan(
		&s.ID,
		&s.SellerID,
		&s.Title,
		&s.Description,
		&s.PriceCents,
		&s.Framework,
		&s.Category,
		&s.ImageURL,
		&s.DownloadURL,
		&s.AdminNotes,
		&s.SubmittedAt,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanApprovedScript(sc scanner) (*models.Script, error) {
	s := &models.Script{Status: models.StatusApproved}
	err := sc.Scan(
		&s.ID,
		&s.SellerID,
		&s.Title,
		&s.Description,
		&s.PriceCents,
		&s.Framework,
		&s.Category,
		&s.ImageURL,
		&s.DownloadURL,
		&s.AdminNotes,
		&s.ApprovedAt,
		&s.ApprovedBy,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanRejectedScript(sc scanner) (*models.Script, error) {
	s := &models.Script{Status: models.StatusRejected}
	err := sc.Scan(
		&s.ID,
		&s.SellerID,
		&s.Title,
		&s.Description,
		&s.PriceCents,
		&s.Framework,
		&s.Category,
		&s.ImageURL,
		&s.DownloadURL,
		&s.AdminNotes,
		&s.RejectedAt,
		&s.RejectedBy,
		&s.RejectionReason,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new submission into pending_scripts
func (r *ScriptRepository) Create(s *models.Script) error {
	query := `
		INSERT INTO pending_scripts (id, seller_id, title, description, price_cents, framework, category, image_url, download_url, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, submitted_at, created_at
	`

	err := r.db.QueryRow(
		query,
		s.ID,
		s.SellerID,
		s.Title,
		s.Description,
		s.PriceCents,
		s.Framework,
		s.Category,
		s.ImageURL,
		s.DownloadURL,
	).Scan(&s.ID, &s.SubmittedAt, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pending script: %w", err)
	}

	s.Status = models.StatusPending
	return nil
}

// GetPending retrieves a script from pending_scripts
func (r *ScriptRepository) GetPending(id uuid.UUID) (*models.Script, error) {
	query := `
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, submitted_at, created_at
		FROM pending_scripts
		WHERE id = $1
	`

	s, err := scanPendingScript(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending script: %w", err)
	}
	return s, nil
}

// GetApproved retrieves a script from approved_scripts
func (r *ScriptRepository) GetApproved(id uuid.UUID) (*models.Script, error) {
	query := `
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, approved_at, approved_by, created_at
		FROM approved_scripts
		WHERE id = $1
	`

	s, err := scanApprovedScript(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approved script: %w", err)
	}
	return s, nil
}

// GetRejected retrieves a script from rejected_scripts
func (r *ScriptRepository) GetRejected(id uuid.UUID) (*models.Script, error) {
	query := `
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, rejected_at, rejected_by, rejection_reason, created_at
		FROM rejected_scripts
		WHERE id = $1
	`

	s, err := scanRejectedScript(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rejected script: %w", err)
	}
	return s, nil
}

// FindAny locates a script in whichever status table currently holds it
func (r *ScriptRepository) FindAny(id uuid.UUID) (*models.Script, error) {
	if s, err := r.GetPending(id); err == nil {
		return s, nil
	} else if err != ErrNotFound {
		return nil, err
	}
	if s, err := r.GetApproved(id); err == nil {
		return s, nil
	} else if err != ErrNotFound {
		return nil, err
	}
	return r.GetRejected(id)
}

// ListPending returns the moderation queue, oldest first
func (r *ScriptRepository) ListPending() ([]models.Script, error) {
	query := `
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, submitted_at, created_at
		FROM pending_scripts
		ORDER BY submitted_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending scripts: %w", err)
	}
	defer rows.Close()

	scripts := []models.Script{}
	for rows.Next() {
		s, err := scanPendingScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending script: %w", err)
		}
		scripts = append(scripts, *s)
	}
	return scripts, nil
}

// ListApproved returns all live scripts, newest approval first
func (r *ScriptRepository) ListApproved() ([]models.Script, error) {
	query := `
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, approved_at, approved_by, created_at
		FROM approved_scripts
		ORDER BY approved_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved scripts: %w", err)
	}
	defer rows.Close()

	scripts := []models.Script{}
	for rows.Next() {
		s, err := scanApprovedScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approved script: %w", err)
		}
		scripts = append(scripts, *s)
	}
	return scripts, nil
}

// ListBySeller returns a seller's scripts across all three status tables
func (r *ScriptRepository) ListBySeller(sellerID uuid.UUID) ([]models.Script, error) {
	scripts := []models.Script{}

	rows, err := r.db.Query(`
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, submitted_at, created_at
		FROM pending_scripts
		WHERE seller_id = $1
		ORDER BY submitted_at DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller's pending scripts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanPendingScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending script: %w", err)
		}
		scripts = append(scripts, *s)
	}

	rows, err = r.db.Query(`
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, approved_at, approved_by, created_at
		FROM approved_scripts
		WHERE seller_id = $1
		ORDER BY approved_at DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller's approved scripts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanApprovedScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approved script: %w", err)
		}
		scripts = append(scripts, *s)
	}

	rows, err = r.db.Query(`
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, rejected_at, rejected_by, rejection_reason, created_at
		FROM rejected_scripts
		WHERE seller_id = $1
		ORDER BY rejected_at DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller's rejected scripts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanRejectedScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rejected script: %w", err)
		}
		scripts = append(scripts, *s)
	}

	return scripts, nil
}

// Approve moves a pending script into approved_scripts. The second of two
// racing decisions finds no pending row and gets ErrNotFound.
func (r *ScriptRepository) Approve(id, adminID uuid.UUID, notes *string) (*models.Script, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, submitted_at, created_at
		FROM pending_scripts
		WHERE id = $1
		FOR UPDATE
	`, id)
	s, err := scanPendingScript(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending script: %w", err)
	}

	if notes != nil {
		s.AdminNotes = notes
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO approved_scripts (id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, approved_at, approved_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, s.ID, s.SellerID, s.Title, s.Description, s.PriceCents, s.Framework, s.Category, s.ImageURL, s.DownloadURL, s.AdminNotes, now, adminID, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert approved script: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM pending_scripts WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete pending script: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	s.Status = models.StatusApproved
	s.SubmittedAt = nil
	s.ApprovedAt = &now
	s.ApprovedBy = &adminID
	return s, nil
}

// Reject moves a pending script into rejected_scripts with the reason
func (r *ScriptRepository) Reject(id, adminID uuid.UUID, reason string, notes *string) (*models.Script, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, submitted_at, created_at
		FROM pending_scripts
		WHERE id = $1
		FOR UPDATE
	`, id)
	s, err := scanPendingScript(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending script: %w", err)
	}

	if notes != nil {
		s.AdminNotes = notes
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO rejected_scripts (id, seller_id, title, description, price_cents, framework, category, image_url, download_url, admin_notes, rejected_at, rejected_by, rejection_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, s.ID, s.SellerID, s.Title, s.Description, s.PriceCents, s.Framework, s.Category, s.ImageURL, s.DownloadURL, s.AdminNotes, now, adminID, reason, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rejected script: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM pending_scripts WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete pending script: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rejection: %w", err)
	}

	s.Status = models.StatusRejected
	s.SubmittedAt = nil
	s.RejectedAt = &now
	s.RejectedBy = &adminID
	s.RejectionReason = &reason
	return s, nil
}

// UpdatePending updates a pending script's content fields in place
func (r *ScriptRepository) UpdatePending(s *models.Script) error {
	query := `
		UPDATE pending_scripts
		SET title = $1, description = $2, price_cents = $3, framework = $4, category = $5, image_url = $6, download_url = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(query, s.Title, s.Description, s.PriceCents, s.Framework, s.Category, s.ImageURL, s.DownloadURL, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update pending script: %w", err)
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

// MoveToPending moves an approved or rejected script back into the pending
// queue, stripping the decision metadata and stamping a fresh submitted_at.
func (r *ScriptRepository) MoveToPending(s *models.Script) error {
	var source string
	switch s.Status {
	case models.StatusApproved:
		source = "approved_scripts"
	case models.StatusRejected:
		source = "rejected_scripts"
	default:
		return fmt.Errorf("script %s is not in a decided state", s.ID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var submittedAt time.Time
	err = tx.QueryRow(`
		INSERT INTO pending_scripts (id, seller_id, title, description, price_cents, framework, category, image_url, download_url, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), $10)
		RETURNING submitted_at
	`, s.ID, s.SellerID, s.Title, s.Description, s.PriceCents, s.Framework, s.Category, s.ImageURL, s.DownloadURL, s.CreatedAt).Scan(&submittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pending script: %w", err)
	}

	result, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, source), s.ID)
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

	s.Status = models.StatusPending
	s.SubmittedAt = &submittedAt
	s.AdminNotes = nil
	s.ApprovedAt = nil
	s.ApprovedBy = nil
	s.RejectedAt = nil
	s.RejectedBy = nil
	s.RejectionReason = nil
	return nil
}

// Delete removes a script from whichever status table holds it
func (r *ScriptRepository) Delete(id uuid.UUID) error {
	total := int64(0)
	for _, table := range []string{"pending_scripts", "approved_scripts", "rejected_scripts"} {
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

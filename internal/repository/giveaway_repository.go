package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/database"
	"github.com/fivemhub/backend/internal/models"
)

// GiveawayRepository manages the pending/approved/rejected giveaway tables
// plus the requirement and prize child tables. Children are keyed by the
// giveaway id, which survives status moves, so moves never touch them.
type GiveawayRepository struct {
	db *database.DB
}

func NewGiveawayRepository(db *database.DB) *GiveawayRepository {
	return &GiveawayRepository{db: db}
}

func scanPendingGiveaway(sc scanner) (*models.Giveaway, error) {
	g := &models.Giveaway{Status: models.StatusPending}
	err := sc.Scan(
		&g.ID,
		&g.CreatorID,
		&g.Title,
		&g.Description,
		&g.ImageURL,
		&g.EndsAt,
		&g.AdminNotes,
		&g.SubmittedAt,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func scanApprovedGiveaway(sc scanner) (*models.Giveaway, error) {
	g := &models.Giveaway{Status: models.StatusApproved}
	err := sc.Scan(
		&g.ID,
		&g.CreatorID,
		&g.Title,
		&g.Description,
		&g.ImageURL,
		&g.EndsAt,
		&g.AdminNotes,
		&g.ApprovedAt,
		&g.ApprovedBy,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func scanRejectedGiveaway(sc scanner) (*models.Giveaway, error) {
	g := &models.Giveaway{Status: models.StatusRejected}
	err := sc.Scan(
		&g.ID,
		&g.CreatorID,
		&g.Title,
		&g.Description,
		&g.ImageURL,
		&g.EndsAt,
		&g.AdminNotes,
		&g.RejectedAt,
		&g.RejectedBy,
		&g.RejectionReason,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new submission into pending_giveaways together with its
// requirement and prize rows.
func (r *GiveawayRepository) Create(g *models.Giveaway, requirements, prizes []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO pending_giveaways (id, creator_id, title, description, image_url, ends_at, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, submitted_at, created_at
	`, g.ID, g.CreatorID, g.Title, g.Description, g.ImageURL, g.EndsAt).Scan(&g.ID, &g.SubmittedAt, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pending giveaway: %w", err)
	}

	for i, req := range requirements {
		if _, err := tx.Exec(`
			INSERT INTO giveaway_requirements (id, giveaway_id, requirement, position)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), g.ID, req, i); err != nil {
			return fmt.Errorf("failed to insert giveaway requirement: %w", err)
		}
	}

	for i, prize := range prizes {
		if _, err := tx.Exec(`
			INSERT INTO giveaway_prizes (id, giveaway_id, name, place)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), g.ID, prize, i+1); err != nil {
			return fmt.Errorf("failed to insert giveaway prize: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit giveaway creation: %w", err)
	}

	g.Status = models.StatusPending
	return nil
}

// GetPending retrieves a giveaway from pending_giveaways
func (r *GiveawayRepository) GetPending(id uuid.UUID) (*models.Giveaway, error) {
	query := `
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, submitted_at, created_at
		FROM pending_giveaways
		WHERE id = $1
	`

	g, err := scanPendingGiveaway(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending giveaway: %w", err)
	}
	return g, nil
}

// GetApproved retrieves a giveaway from approved_giveaways
func (r *GiveawayRepository) GetApproved(id uuid.UUID) (*models.Giveaway, error) {
	query := `
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, approved_at, approved_by, created_at
		FROM approved_giveaways
		WHERE id = $1
	`

	g, err := scanApprovedGiveaway(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approved giveaway: %w", err)
	}
	return g, nil
}

// GetRejected retrieves a giveaway from rejected_giveaways
func (r *GiveawayRepository) GetRejected(id uuid.UUID) (*models.Giveaway, error) {
	query := `
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, rejected_at, rejected_by, rejection_reason, created_at
		FROM rejected_giveaways
		WHERE id = $1
	`

	g, err := scanRejectedGiveaway(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rejected giveaway: %w", err)
	}
	return g, nil
}

// FindAny locates a giveaway in whichever status table currently holds it
func (r *GiveawayRepository) FindAny(id uuid.UUID) (*models.Giveaway, error) {
	if g, err := r.GetPending(id); err == nil {
		return g, nil
	} else if err != ErrNotFound {
		return nil, err
	}
	if g, err := r.GetApproved(id); err == nil {
		return g, nil
	} else if err != ErrNotFound {
		return nil, err
	}
	return r.GetRejected(id)
}

// ListPending returns the moderation queue, oldest first
func (r *GiveawayRepository) ListPending() ([]models.Giveaway, error) {
	query := `
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, submitted_at, created_at
		FROM pending_giveaways
		ORDER BY submitted_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending giveaways: %w", err)
	}
	defer rows.Close()

	giveaways := []models.Giveaway{}
	for rows.Next() {
		g, err := scanPendingGiveaway(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending giveaway: %w", err)
		}
		giveaways = append(giveaways, *g)
	}
	return giveaways, nil
}

// ListApproved returns live giveaways, soonest ending first
func (r *GiveawayRepository) ListApproved() ([]models.Giveaway, error) {
	query := `
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, approved_at, approved_by, created_at
		FROM approved_giveaways
		ORDER BY ends_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved giveaways: %w", err)
	}
	defer rows.Close()

	giveaways := []models.Giveaway{}
	for rows.Next() {
		g, err := scanApprovedGiveaway(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approved giveaway: %w", err)
		}
		giveaways = append(giveaways, *g)
	}
	return giveaways, nil
}

// ListByCreator returns a creator's giveaways across all three status tables
func (r *GiveawayRepository) ListByCreator(creatorID uuid.UUID) ([]models.Giveaway, error) {
	giveaways := []models.Giveaway{}

	rows, err := r.db.Query(`
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, submitted_at, created_at
		FROM pending_giveaways
		WHERE creator_id = $1
		ORDER BY submitted_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator's pending giveaways: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		g, err := scanPendingGiveaway(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending giveaway: %w", err)
		}
		giveaways = append(giveaways, *g)
	}

	rows, err = r.db.Query(`
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, approved_at, approved_by, created_at
		FROM approved_giveaways
		WHERE creator_id = $1
		ORDER BY approved_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator's approved giveaways: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		g, err := scanApprovedGiveaway(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approved giveaway: %w", err)
		}
		giveaways = append(giveaways, *g)
	}

	rows, err = r.db.Query(`
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, rejected_at, rejected_by, rejection_reason, created_at
		FROM rejected_giveaways
		WHERE creator_id = $1
		ORDER BY rejected_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator's rejected giveaways: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		g, err := scanRejectedGiveaway(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rejected giveaway: %w", err)
		}
		giveaways = append(giveaways, *g)
	}

	return giveaways, nil
}

// Approve moves a pending giveaway into approved_giveaways
func (r *GiveawayRepository) Approve(id, adminID uuid.UUID, notes *string) (*models.Giveaway, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, submitted_at, created_at
		FROM pending_giveaways
		WHERE id = $1
		FOR UPDATE
	`, id)
	g, err := scanPendingGiveaway(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending giveaway: %w", err)
	}

	if notes != nil {
		g.AdminNotes = notes
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO approved_giveaways (id, creator_id, title, description, image_url, ends_at, admin_notes, approved_at, approved_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, g.ID, g.CreatorID, g.Title, g.Description, g.ImageURL, g.EndsAt, g.AdminNotes, now, adminID, g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert approved giveaway: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM pending_giveaways WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete pending giveaway: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	g.Status = models.StatusApproved
	g.SubmittedAt = nil
	g.ApprovedAt = &now
	g.ApprovedBy = &adminID
	return g, nil
}

// Reject moves a pending giveaway into rejected_giveaways with the reason
func (r *GiveawayRepository) Reject(id, adminID uuid.UUID, reason string, notes *string) (*models.Giveaway, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT id, creator_id, title, description, image_url, ends_at, admin_notes, submitted_at, created_at
		FROM pending_giveaways
		WHERE id = $1
		FOR UPDATE
	`, id)
	g, err := scanPendingGiveaway(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending giveaway: %w", err)
	}

	if notes != nil {
		g.AdminNotes = notes
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO rejected_giveaways (id, creator_id, title, description, image_url, ends_at, admin_notes, rejected_at, rejected_by, rejection_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, g.ID, g.CreatorID, g.Title, g.Description, g.ImageURL, g.EndsAt, g.AdminNotes, now, adminID, reason, g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rejected giveaway: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM pending_giveaways WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete pending giveaway: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rejection: %w", err)
	}

	g.Status = models.StatusRejected
	g.SubmittedAt = nil
	g.RejectedAt = &now
	g.RejectedBy = &adminID
	g.RejectionReason = &reason
	return g, nil
}

// UpdatePending updates a pending giveaway's content fields in place
func (r *GiveawayRepository) UpdatePending(g *models.Giveaway) error {
	query := `
		UPDATE pending_giveaways
		SET title = $1, description = $2, image_url = $3, ends_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(query, g.Title, g.Description, g.ImageURL, g.EndsAt, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update pending giveaway: %w", err)
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

// MoveToPending moves an approved or rejected giveaway back into the pending
// queue, stripping the decision metadata. Requirement and prize rows are
// untouched; they follow the id.
func (r *GiveawayRepository) MoveToPending(g *models.Giveaway) error {
	var source string
	switch g.Status {
	case models.StatusApproved:
		source = "approved_giveaways"
	case models.StatusRejected:
		source = "rejected_giveaways"
	default:
		return fmt.Errorf("giveaway %s is not in a decided state", g.ID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var submittedAt time.Time
	err = tx.QueryRow(`
		INSERT INTO pending_giveaways (id, creator_id, title, description, image_url, ends_at, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7)
		RETURNING submitted_at
	`, g.ID, g.CreatorID, g.Title, g.Description, g.ImageURL, g.EndsAt, g.CreatedAt).Scan(&submittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pending giveaway: %w", err)
	}

	result, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, source), g.ID)
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

	g.Status = models.StatusPending
	g.SubmittedAt = &submittedAt
	g.AdminNotes = nil
	g.ApprovedAt = nil
	g.ApprovedBy = nil
	g.RejectedAt = nil
	g.RejectedBy = nil
	g.RejectionReason = nil
	return nil
}

// ReplaceRequirements swaps the full requirement set for a giveaway
func (r *GiveawayRepository) ReplaceRequirements(giveawayID uuid.UUID, requirements []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM giveaway_requirements WHERE giveaway_id = $1`, giveawayID); err != nil {
		return fmt.Errorf("failed to clear giveaway requirements: %w", err)
	}

	for i, req := range requirements {
		if _, err := tx.Exec(`
			INSERT INTO giveaway_requirements (id, giveaway_id, requirement, position)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), giveawayID, req, i); err != nil {
			return fmt.Errorf("failed to insert giveaway requirement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit requirements: %w", err)
	}
	return nil
}

// ReplacePrizes swaps the full prize set for a giveaway
func (r *GiveawayRepository) ReplacePrizes(giveawayID uuid.UUID, prizes []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM giveaway_prizes WHERE giveaway_id = $1`, giveawayID); err != nil {
		return fmt.Errorf("failed to clear giveaway prizes: %w", err)
	}

	for i, prize := range prizes {
		if _, err := tx.Exec(`
			INSERT INTO giveaway_prizes (id, giveaway_id, name, place)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), giveawayID, prize, i+1); err != nil {
			return fmt.Errorf("failed to insert giveaway prize: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prizes: %w", err)
	}
	return nil
}

// Enrich loads the requirement and prize rows for a giveaway
func (r *GiveawayRepository) Enrich(g *models.Giveaway) error {
	rows, err := r.db.Query(`
		SELECT id, giveaway_id, requirement, position
		FROM giveaway_requirements
		WHERE giveaway_id = $1
		ORDER BY position ASC
	`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to get giveaway requirements: %w", err)
	}
	defer rows.Close()

	g.Requirements = []models.GiveawayRequirement{}
	for rows.Next() {
		var req models.GiveawayRequirement
		if err := rows.Scan(&req.ID, &req.GiveawayID, &req.Requirement, &req.Position); err != nil {
			return fmt.Errorf("failed to scan giveaway requirement: %w", err)
		}
		g.Requirements = append(g.Requirements, req)
	}

	rows, err = r.db.Query(`
		SELECT id, giveaway_id, name, place
		FROM giveaway_prizes
		WHERE giveaway_id = $1
		ORDER BY place ASC
	`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to get giveaway prizes: %w", err)
	}
	defer rows.Close()

	g.Prizes = []models.GiveawayPrize{}
	for rows.Next() {
		var prize models.GiveawayPrize
		if err := rows.Scan(&prize.ID, &prize.GiveawayID, &prize.Name, &prize.Place); err != nil {
			return fmt.Errorf("failed to scan giveaway prize: %w", err)
		}
		g.Prizes = append(g.Prizes, prize)
	}

	return nil
}

// Delete removes a giveaway and its child rows from whichever table holds it
func (r *GiveawayRepository) Delete(id uuid.UUID) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	total := int64(0)
	for _, table := range []string{"pending_giveaways", "approved_giveaways", "rejected_giveaways"} {
		result, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
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

	if _, err := tx.Exec(`DELETE FROM giveaway_requirements WHERE giveaway_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete giveaway requirements: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM giveaway_prizes WHERE giveaway_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete giveaway prizes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

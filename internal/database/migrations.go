package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations.
//
// Each moderatable content type (scripts, giveaways, ads) is stored across
// three physically separate tables: pending_*, approved_* and rejected_*.
// Table membership is the status; an item's id lives in at most one of the
// three at any time.
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				email VARCHAR(255) UNIQUE NOT NULL,
				display_name VARCHAR(255) NOT NULL,
				avatar_url TEXT,
				password_hash VARCHAR(255) NOT NULL,
				role VARCHAR(50) NOT NULL DEFAULT 'user',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS pending_scripts (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				seller_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				price_cents INT NOT NULL DEFAULT 0,
				framework VARCHAR(50),
				category VARCHAR(100),
				image_url TEXT,
				download_url TEXT,
				admin_notes TEXT,
				submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS approved_scripts (
				id UUID PRIMARY KEY,
				seller_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				price_cents INT NOT NULL DEFAULT 0,
				framework VARCHAR(50),
				category VARCHAR(100),
				image_url TEXT,
				download_url TEXT,
				admin_notes TEXT,
				approved_at TIMESTAMP NOT NULL DEFAULT NOW(),
				approved_by UUID REFERENCES users(id) ON DELETE SET NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS rejected_scripts (
				id UUID PRIMARY KEY,
				seller_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				price_cents INT NOT NULL DEFAULT 0,
				framework VARCHAR(50),
				category VARCHAR(100),
				image_url TEXT,
				download_url TEXT,
				admin_notes TEXT,
				rejected_at TIMESTAMP NOT NULL DEFAULT NOW(),
				rejected_by UUID REFERENCES users(id) ON DELETE SET NULL,
				rejection_reason TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_pending_scripts_seller ON pending_scripts(seller_id);
			CREATE INDEX IF NOT EXISTS idx_approved_scripts_seller ON approved_scripts(seller_id);
			CREATE INDEX IF NOT EXISTS idx_approved_scripts_category ON approved_scripts(category);
			CREATE INDEX IF NOT EXISTS idx_rejected_scripts_seller ON rejected_scripts(seller_id);
		`,
		Down: `
			DROP TABLE IF EXISTS pending_scripts;
			DROP TABLE IF EXISTS approved_scripts;
			DROP TABLE IF EXISTS rejected_scripts;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS pending_giveaways (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				creator_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				image_url TEXT,
				ends_at TIMESTAMP NOT NULL,
				admin_notes TEXT,
				submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS approved_giveaways (
				id UUID PRIMARY KEY,
				creator_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				image_url TEXT,
				ends_at TIMESTAMP NOT NULL,
				admin_notes TEXT,
				approved_at TIMESTAMP NOT NULL DEFAULT NOW(),
				approved_by UUID REFERENCES users(id) ON DELETE SET NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS rejected_giveaways (
				id UUID PRIMARY KEY,
				creator_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				image_url TEXT,
				ends_at TIMESTAMP NOT NULL,
				admin_notes TEXT,
				rejected_at TIMESTAMP NOT NULL DEFAULT NOW(),
				rejected_by UUID REFERENCES users(id) ON DELETE SET NULL,
				rejection_reason TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_pending_giveaways_creator ON pending_giveaways(creator_id);
			CREATE INDEX IF NOT EXISTS idx_approved_giveaways_creator ON approved_giveaways(creator_id);
			CREATE INDEX IF NOT EXISTS idx_approved_giveaways_ends ON approved_giveaways(ends_at);
			CREATE INDEX IF NOT EXISTS idx_rejected_giveaways_creator ON rejected_giveaways(creator_id);
		`,
		Down: `
			DROP TABLE IF EXISTS pending_giveaways;
			DROP TABLE IF EXISTS approved_giveaways;
			DROP TABLE IF EXISTS rejected_giveaways;
		`,
	},
	{
		Version: 4,
		Up: `
			-- No FK on giveaway_id: the parent row moves between the three
			-- status tables and keeps its id.
			CREATE TABLE IF NOT EXISTS giveaway_requirements (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				giveaway_id UUID NOT NULL,
				requirement TEXT NOT NULL,
				position INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS giveaway_prizes (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				giveaway_id UUID NOT NULL,
				name VARCHAR(255) NOT NULL,
				place INT NOT NULL DEFAULT 1,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_giveaway_requirements_giveaway ON giveaway_requirements(giveaway_id);
			CREATE INDEX IF NOT EXISTS idx_giveaway_prizes_giveaway ON giveaway_prizes(giveaway_id);
		`,
		Down: `
			DROP TABLE IF EXISTS giveaway_requirements;
			DROP TABLE IF EXISTS giveaway_prizes;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS pending_ads (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				image_url TEXT NOT NULL,
				link_url TEXT NOT NULL,
				slot VARCHAR(50) NOT NULL,
				duration_days INT NOT NULL DEFAULT 7,
				paypal_order_id VARCHAR(255),
				admin_notes TEXT,
				submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS approved_ads (
				id UUID PRIMARY KEY,
				created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				image_url TEXT NOT NULL,
				link_url TEXT NOT NULL,
				slot VARCHAR(50) NOT NULL,
				duration_days INT NOT NULL DEFAULT 7,
				paypal_order_id VARCHAR(255),
				admin_notes TEXT,
				approved_at TIMESTAMP NOT NULL DEFAULT NOW(),
				approved_by UUID REFERENCES users(id) ON DELETE SET NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS rejected_ads (
				id UUID PRIMARY KEY,
				created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				image_url TEXT NOT NULL,
				link_url TEXT NOT NULL,
				slot VARCHAR(50) NOT NULL,
				duration_days INT NOT NULL DEFAULT 7,
				paypal_order_id VARCHAR(255),
				admin_notes TEXT,
				rejected_at TIMESTAMP NOT NULL DEFAULT NOW(),
				rejected_by UUID REFERENCES users(id) ON DELETE SET NULL,
				rejection_reason TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_pending_ads_creator ON pending_ads(created_by);
			CREATE INDEX IF NOT EXISTS idx_approved_ads_creator ON approved_ads(created_by);
			CREATE INDEX IF NOT EXISTS idx_approved_ads_slot ON approved_ads(slot);
			CREATE INDEX IF NOT EXISTS idx_rejected_ads_creator ON rejected_ads(created_by);
		`,
		Down: `
			DROP TABLE IF EXISTS pending_ads;
			DROP TABLE IF EXISTS approved_ads;
			DROP TABLE IF EXISTS rejected_ads;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS ad_orders (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				ad_id UUID NOT NULL,
				order_id VARCHAR(255) UNIQUE NOT NULL,
				payer_id UUID REFERENCES users(id) ON DELETE SET NULL,
				amount_cents INT NOT NULL,
				currency VARCHAR(10) NOT NULL DEFAULT 'USD',
				status VARCHAR(50) NOT NULL DEFAULT 'created',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_ad_orders_ad ON ad_orders(ad_id);
			CREATE INDEX IF NOT EXISTS idx_ad_orders_payer ON ad_orders(payer_id);
		`,
		Down: `
			DROP TABLE IF EXISTS ad_orders;
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

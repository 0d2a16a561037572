package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createJobTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE jobs (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		job_size TEXT NOT NULL,
		budget_cents INTEGER,
		lead_price_override_cents INTEGER,
		max_contractors INTEGER NOT NULL,
		won_by_contractor_id TEXT,
		final_amount_cents INTEGER,
		start_date DATETIME,
		completed_at DATETIME,
		customer_confirmed BOOLEAN NOT NULL DEFAULT 0,
		commission_paid BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE job_applications (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		contractor_id TEXT NOT NULL,
		status TEXT NOT NULL,
		proposed_rate_cents INTEGER NOT NULL,
		message TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (job_id, contractor_id)
	);`)
}

func createJobAccessTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE job_accesses (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		contractor_id TEXT NOT NULL,
		access_method TEXT NOT NULL,
		paid_amount_cents INTEGER,
		accessed_at DATETIME NOT NULL,
		UNIQUE (job_id, contractor_id)
	);`)
	mustExec(t, db, `CREATE TABLE lead_payments (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		contractor_id TEXT NOT NULL,
		charge_id TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		refunded_cents INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createContractorTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE contractors (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		business_name TEXT NOT NULL,
		credits_balance INTEGER NOT NULL DEFAULT 0,
		weekly_credits_limit INTEGER NOT NULL DEFAULT 0,
		last_credit_reset DATETIME,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE credit_transactions (
		id TEXT PRIMARY KEY,
		contractor_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount INTEGER NOT NULL,
		description TEXT,
		created_at DATETIME
	);`)
}

func createCommissionTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE commission_payments (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL UNIQUE,
		contractor_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		final_job_amount_cents INTEGER NOT NULL,
		commission_rate REAL NOT NULL,
		commission_amount_cents INTEGER NOT NULL,
		vat_amount_cents INTEGER NOT NULL DEFAULT 0,
		total_amount_cents INTEGER NOT NULL,
		status TEXT NOT NULL,
		due_date DATETIME NOT NULL,
		paid_at DATETIME,
		waived_reason TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE invoices (
		id TEXT PRIMARY KEY,
		commission_id TEXT NOT NULL UNIQUE,
		job_id TEXT NOT NULL,
		contractor_id TEXT NOT NULL,
		number TEXT NOT NULL UNIQUE,
		amount_cents INTEGER NOT NULL,
		status TEXT NOT NULL,
		issued_at DATETIME NOT NULL,
		settled_at DATETIME
	);`)
}

func createPricingTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE service_pricings (
		id TEXT PRIMARY KEY,
		small_price_cents INTEGER NOT NULL DEFAULT 0,
		medium_price_cents INTEGER NOT NULL DEFAULT 0,
		large_price_cents INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAuditLogTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		before_state TEXT,
		after_state TEXT,
		reason TEXT,
		created_at DATETIME
	);`)
}

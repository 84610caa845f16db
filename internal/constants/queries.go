package constants

// Queries are written with '?' placeholders and passed through sqlx.Rebind so the
// same text runs against Postgres and the sqlite test database.
const (
	LedgerTotalByPilot = `
	SELECT COALESCE(SUM(flight_time), 0) FROM pireps
	WHERE owner_id = ? AND status = 'approved'
	`

	LedgerSummaryByPilot = `
	SELECT
		COALESCE(SUM(CASE WHEN status = 'approved' THEN flight_time ELSE 0 END), 0) AS approved_minutes,
		COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved_count,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_count,
		COALESCE(SUM(CASE WHEN status = 'denied' THEN 1 ELSE 0 END), 0) AS denied_count
	FROM pireps
	WHERE owner_id = ?
	`

	// Every pilot, including those with nothing approved, so stale ranks get cleared too
	PilotLedgerTotals = `
	SELECT p.id AS owner_id, COALESCE(SUM(r.flight_time), 0) AS total
	FROM pilots p
	LEFT JOIN pireps r ON r.owner_id = p.id AND r.status = 'approved'
	GROUP BY p.id
	`
)

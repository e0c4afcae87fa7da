// Package db provides PostgreSQL persistence for submitted applications and
// agent attributions.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/enrollment"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// SubmittedApplication is the persisted record of one accepted enrollment.
// Only what is needed to correlate with the carrier is stored.
type SubmittedApplication struct {
	ID                    uuid.UUID       `json:"id"`
	ApplicationFormNumber string          `json:"application_form_number"`
	ConfirmationNumber    string          `json:"confirmation_number"`
	State                 string          `json:"state"`
	EffectiveDate         string          `json:"effective_date"`
	AgentID               int             `json:"agent_id"`
	PlanIDs               []string        `json:"plan_ids"`
	PlanKeys              []string        `json:"plan_keys"`
	Answers               json.RawMessage `json:"answers,omitempty"`
	SubmittedAt           time.Time       `json:"submitted_at"`
}

// SaveApplication records an accepted enrollment and returns its id.
func (db *DB) SaveApplication(ctx context.Context, req *enrollment.Request, result *enrollment.Result) (uuid.UUID, error) {
	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO submitted_applications
		   (application_form_number, confirmation_number, state, effective_date, agent_id, plan_ids, plan_keys, answers)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		req.ApplicationFormNumber, result.ConfirmationNumber, req.State, req.EffectiveDate,
		req.AgentID, req.PlanIDs, req.PlanKeys, answers,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save application: %w", err)
	}
	return id, nil
}

// GetApplicationByFormNumber retrieves a submitted application, or nil when
// the form number is unknown.
func (db *DB) GetApplicationByFormNumber(ctx context.Context, formNumber string) (*SubmittedApplication, error) {
	var app SubmittedApplication
	err := db.pool.QueryRow(ctx,
		`SELECT id, application_form_number, confirmation_number, state, effective_date,
		        agent_id, plan_ids, plan_keys, answers, submitted_at
		 FROM submitted_applications
		 WHERE application_form_number = $1`,
		formNumber,
	).Scan(&app.ID, &app.ApplicationFormNumber, &app.ConfirmationNumber, &app.State,
		&app.EffectiveDate, &app.AgentID, &app.PlanIDs, &app.PlanKeys, &app.Answers, &app.SubmittedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// ListApplications retrieves recent submitted applications
func (db *DB) ListApplications(ctx context.Context, limit int) ([]SubmittedApplication, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_form_number, confirmation_number, state, effective_date,
		        agent_id, plan_ids, plan_keys, submitted_at
		 FROM submitted_applications ORDER BY submitted_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []SubmittedApplication
	for rows.Next() {
		var app SubmittedApplication
		if err := rows.Scan(&app.ID, &app.ApplicationFormNumber, &app.ConfirmationNumber, &app.State,
			&app.EffectiveDate, &app.AgentID, &app.PlanIDs, &app.PlanKeys, &app.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// RecordAttribution upserts the agent attribution for a session so a later
// enrollment can credit the referring agent. Last referrer wins.
func (db *DB) RecordAttribution(ctx context.Context, sessionID string, agentID int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO agent_attributions (session_id, agent_id)
		 VALUES ($1, $2)
		 ON CONFLICT (session_id) DO UPDATE SET agent_id = $2, updated_at = NOW()`,
		sessionID, agentID,
	)
	if err != nil {
		return fmt.Errorf("failed to record attribution: %w", err)
	}
	return nil
}

// GetAttribution returns the agent attributed to a session, or 0 when none.
func (db *DB) GetAttribution(ctx context.Context, sessionID string) (int, error) {
	var agentID int
	err := db.pool.QueryRow(ctx,
		`SELECT agent_id FROM agent_attributions WHERE session_id = $1`,
		sessionID,
	).Scan(&agentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get attribution: %w", err)
	}
	return agentID, nil
}

// Package db provides storage for assessment results on PostgreSQL or SQLite.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS assessment_results (
	id                UUID PRIMARY KEY,
	email             VARCHAR(255) NOT NULL,
	age               VARCHAR(50),
	divorce_stage     VARCHAR(100),
	overall_score     DOUBLE PRECISION NOT NULL,
	dominant_strategy VARCHAR(1) NOT NULL,
	legal_score       DOUBLE PRECISION,
	emotional_score   DOUBLE PRECISION,
	financial_score   DOUBLE PRECISION,
	children_score    DOUBLE PRECISION,
	recovery_score    DOUBLE PRECISION,
	responses         JSONB,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_assessment_results_email ON assessment_results (email);
CREATE INDEX IF NOT EXISTS idx_assessment_results_created_at ON assessment_results (created_at DESC);
`

const resultColumns = `id, email, age, divorce_stage, overall_score, dominant_strategy,
	legal_score, emotional_score, financial_score, children_score, recovery_score,
	responses, created_at`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
	now  func() time.Time
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

	return &DB{pool: pool, now: time.Now}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// EnsureSchema creates the results table and indexes if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveAssessmentResult inserts a result, assigning its ID and creation time.
func (db *DB) SaveAssessmentResult(ctx context.Context, result *AssessmentResult) (*AssessmentResult, error) {
	saved := *result
	saved.prepare(db.now())

	_, err := db.pool.Exec(ctx,
		`INSERT INTO assessment_results (`+resultColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		saved.ID, saved.Email, saved.Age, saved.DivorceStage, saved.OverallScore, string(saved.DominantStrategy),
		saved.LegalScore, saved.EmotionalScore, saved.FinancialScore, saved.ChildrenScore, saved.RecoveryScore,
		[]byte(saved.Responses), saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save assessment result: %w", err)
	}
	return &saved, nil
}

// GetAssessmentResult retrieves a result by ID. Returns nil, nil when not found.
func (db *DB) GetAssessmentResult(ctx context.Context, id uuid.UUID) (*AssessmentResult, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM assessment_results WHERE id = $1`, id)
	result, err := scanPostgresResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment result: %w", err)
	}
	return result, nil
}

// ListAssessmentResults returns results newest first, optionally filtered by email.
func (db *DB) ListAssessmentResults(ctx context.Context, filters ResultFilters) ([]AssessmentResult, error) {
	query := `SELECT ` + resultColumns + ` FROM assessment_results`
	args := []any{}
	if filters.Email != "" {
		query += ` WHERE email = $1`
		args = append(args, filters.Email)
	}
	args = append(args, filters.limit())
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment results: %w", err)
	}
	defer rows.Close()

	var results []AssessmentResult
	for rows.Next() {
		result, err := scanPostgresResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment result: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assessment results: %w", err)
	}
	return results, nil
}

func scanPostgresResult(row pgx.Row) (*AssessmentResult, error) {
	var (
		r                  AssessmentResult
		age, stage         *string
		dominant           string
		legal, emotional   *float64
		financial          *float64
		children, recovery *float64
		responses          []byte
	)
	err := row.Scan(&r.ID, &r.Email, &age, &stage, &r.OverallScore, &dominant,
		&legal, &emotional, &financial, &children, &recovery, &responses, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Age = deref(age)
	r.DivorceStage = deref(stage)
	r.DominantStrategy = strategyCode(dominant)
	r.LegalScore = derefFloat(legal)
	r.EmotionalScore = derefFloat(emotional)
	r.FinancialScore = derefFloat(financial)
	r.ChildrenScore = derefFloat(children)
	r.RecoveryScore = derefFloat(recovery)
	r.Responses = responses
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

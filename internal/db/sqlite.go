package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS assessment_results (
	id                TEXT PRIMARY KEY,
	email             TEXT NOT NULL,
	age               TEXT,
	divorce_stage     TEXT,
	overall_score     REAL NOT NULL,
	dominant_strategy TEXT NOT NULL,
	legal_score       REAL,
	emotional_score   REAL,
	financial_score   REAL,
	children_score    REAL,
	recovery_score    REAL,
	responses         TEXT,
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessment_results_email ON assessment_results (email);
CREATE INDEX IF NOT EXISTS idx_assessment_results_created_at ON assessment_results (created_at);
`

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps results in a local SQLite file. It is the fallback
// when no PostgreSQL URL is configured.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	return &SQLiteStore{db: sqlDB, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the results table and indexes if they do not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveAssessmentResult inserts a result, assigning its ID and creation time.
func (s *SQLiteStore) SaveAssessmentResult(ctx context.Context, result *AssessmentResult) (*AssessmentResult, error) {
	saved := *result
	saved.prepare(s.now())

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessment_results (`+resultColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID.String(), saved.Email, saved.Age, saved.DivorceStage, saved.OverallScore, string(saved.DominantStrategy),
		saved.LegalScore, saved.EmotionalScore, saved.FinancialScore, saved.ChildrenScore, saved.RecoveryScore,
		string(saved.Responses), saved.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save assessment result: %w", err)
	}
	return &saved, nil
}

// GetAssessmentResult retrieves a result by ID. Returns nil, nil when not found.
func (s *SQLiteStore) GetAssessmentResult(ctx context.Context, id uuid.UUID) (*AssessmentResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM assessment_results WHERE id = ?`, id.String())
	result, err := scanSQLiteResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment result: %w", err)
	}
	return result, nil
}

// ListAssessmentResults returns results newest first, optionally filtered by email.
func (s *SQLiteStore) ListAssessmentResults(ctx context.Context, filters ResultFilters) ([]AssessmentResult, error) {
	query := `SELECT ` + resultColumns + ` FROM assessment_results`
	args := []any{}
	if filters.Email != "" {
		query += ` WHERE email = ?`
		args = append(args, filters.Email)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, filters.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []AssessmentResult
	for rows.Next() {
		result, err := scanSQLiteResult(rows)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteResult(row rowScanner) (*AssessmentResult, error) {
	var (
		r                  AssessmentResult
		id, dominant       string
		createdAt          string
		age, stage         sql.NullString
		responses          sql.NullString
		legal, emotional   sql.NullFloat64
		financial          sql.NullFloat64
		children, recovery sql.NullFloat64
	)
	err := row.Scan(&id, &r.Email, &age, &stage, &r.OverallScore, &dominant,
		&legal, &emotional, &financial, &children, &recovery, &responses, &createdAt)
	if err != nil {
		return nil, err
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	if r.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	r.Age = age.String
	r.DivorceStage = stage.String
	r.DominantStrategy = strategyCode(dominant)
	r.LegalScore = legal.Float64
	r.EmotionalScore = emotional.Float64
	r.FinancialScore = financial.Float64
	r.ChildrenScore = children.Float64
	r.RecoveryScore = recovery.Float64
	if responses.Valid {
		r.Responses = []byte(responses.String)
	}
	return &r, nil
}

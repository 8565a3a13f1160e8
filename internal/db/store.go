package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/types"
)

// DefaultSQLitePath is used when neither a PostgreSQL URL nor a SQLite path is configured.
const DefaultSQLitePath = "divorce_assessment.db"

// Store persists assessment results.
type Store interface {
	EnsureSchema(ctx context.Context) error
	SaveAssessmentResult(ctx context.Context, result *AssessmentResult) (*AssessmentResult, error)
	GetAssessmentResult(ctx context.Context, id uuid.UUID) (*AssessmentResult, error)
	ListAssessmentResults(ctx context.Context, filters ResultFilters) ([]AssessmentResult, error)
	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// IsPostgresURL reports whether databaseURL selects the PostgreSQL backend.
func IsPostgresURL(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

// Open selects a backend: PostgreSQL for a postgres URL, otherwise SQLite
// at sqlitePath. The schema is ensured before returning.
func Open(ctx context.Context, databaseURL, sqlitePath string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store Store
		err   error
	)
	if IsPostgresURL(databaseURL) {
		store, err = Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres results store")
	} else {
		if databaseURL != "" {
			logger.Warn("DATABASE_URL is not a postgres URL, falling back to sqlite")
		} else {
			logger.Warn("DATABASE_URL is not set, falling back to sqlite")
		}
		if sqlitePath == "" {
			sqlitePath = DefaultSQLitePath
		}
		store, err = OpenSQLite(sqlitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite results store", zap.String("path", sqlitePath))
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// strategyCode keeps unknown stored codes as-is so they still surface in exports.
func strategyCode(s string) types.StrategyCode {
	return types.StrategyCode(strings.TrimSpace(s))
}

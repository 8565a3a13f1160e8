package catalog

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/strategy-profiler/internal/types"
)

// Reference is the read-only strategy reference: descriptive text per code
// and the ordered matchup table. Components receive it explicitly.
type Reference struct {
	strategies map[types.StrategyCode]types.StrategyInfo
	matchups   []types.MatchupRule
}

// ReferenceError reports reference data that could not be loaded or is incomplete.
type ReferenceError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ReferenceError) Error() string {
	prefix := "reference data"
	if e.Path != "" {
		prefix = fmt.Sprintf("reference data %s", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// referenceFile is the on-disk shape of a reference override.
type referenceFile struct {
	Strategies []types.StrategyInfo `yaml:"strategies"`
	Matchups   []types.MatchupRule  `yaml:"matchups"`
}

// DefaultReference returns the built-in reference data.
func DefaultReference() *Reference {
	ref, err := NewReference(defaultStrategies(), defaultMatchups())
	if err != nil {
		panic(fmt.Sprintf("built-in reference data is invalid: %v", err))
	}
	return ref
}

// NewReference validates and copies strategy and matchup data.
// Every one of G, B, C, H needs a labelled entry.
func NewReference(strategies []types.StrategyInfo, matchups []types.MatchupRule) (*Reference, error) {
	ref := &Reference{
		strategies: make(map[types.StrategyCode]types.StrategyInfo, len(strategies)),
		matchups:   make([]types.MatchupRule, 0, len(matchups)),
	}
	for _, info := range strategies {
		if !info.Code.Valid() {
			return nil, &ReferenceError{Message: fmt.Sprintf("unknown strategy code %q", info.Code)}
		}
		if strings.TrimSpace(info.Label) == "" {
			return nil, &ReferenceError{Message: fmt.Sprintf("strategy %s has no label", info.Code)}
		}
		ref.strategies[info.Code] = info
	}
	for _, code := range types.StrategyCodes() {
		if _, ok := ref.strategies[code]; !ok {
			return nil, &ReferenceError{Message: fmt.Sprintf("missing strategy %s", code)}
		}
	}
	for i, rule := range matchups {
		if !rule.Your.Valid() {
			return nil, &ReferenceError{Message: fmt.Sprintf("matchup %d: unknown strategy %q", i, rule.Your)}
		}
		for _, ex := range rule.Ex {
			if !ex.Valid() {
				return nil, &ReferenceError{Message: fmt.Sprintf("matchup %d: unknown ex strategy %q", i, ex)}
			}
		}
		rule.Ex = append([]types.StrategyCode(nil), rule.Ex...)
		ref.matchups = append(ref.matchups, rule)
	}
	return ref, nil
}

// ParseReference decodes a YAML reference document.
func ParseReference(data []byte) (*Reference, error) {
	var doc referenceFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ReferenceError{Message: "invalid YAML", Cause: err}
	}
	return NewReference(doc.Strategies, doc.Matchups)
}

// LoadReference reads a YAML override from path. An empty path selects the
// built-in data. Any read or parse failure falls back to the built-in data
// and is logged.
func LoadReference(path string, logger *zap.Logger) *Reference {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return DefaultReference()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reference data unavailable, using built-in copy",
			zap.String("path", path), zap.Error(err))
		return DefaultReference()
	}
	ref, err := ParseReference(data)
	if err != nil {
		logger.Warn("reference data rejected, using built-in copy",
			zap.String("path", path), zap.Error(err))
		return DefaultReference()
	}
	logger.Info("loaded reference data", zap.String("path", path), zap.Int("matchups", len(ref.matchups)))
	return ref
}

// Strategy returns the reference entry for code.
func (r *Reference) Strategy(code types.StrategyCode) (types.StrategyInfo, bool) {
	info, ok := r.strategies[code]
	return info, ok
}

// Label returns the display label for code, or the raw code when unknown.
func (r *Reference) Label(code types.StrategyCode) string {
	if info, ok := r.strategies[code]; ok {
		return info.Label
	}
	return string(code)
}

// Strategies returns the entries in G, B, C, H order.
func (r *Reference) Strategies() []types.StrategyInfo {
	out := make([]types.StrategyInfo, 0, len(r.strategies))
	for _, code := range types.StrategyCodes() {
		out = append(out, r.strategies[code])
	}
	return out
}

// Matchups returns a copy of the matchup table in declaration order.
func (r *Reference) Matchups() []types.MatchupRule {
	out := make([]types.MatchupRule, len(r.matchups))
	for i, rule := range r.matchups {
		rule.Ex = append([]types.StrategyCode(nil), rule.Ex...)
		out[i] = rule
	}
	return out
}

// Package types provides type definitions for structured data used throughout the strategy profiler.
package types

import (
	"encoding/json"
	"fmt"
)

// StrategyCode identifies one of the four negotiation strategies.
type StrategyCode string

const (
	// StrategyPeoplePleaser avoids conflict and concedes to keep the peace.
	StrategyPeoplePleaser StrategyCode = "G"
	// StrategyDiplomat seeks balanced, child-focused outcomes.
	StrategyDiplomat StrategyCode = "B"
	// StrategyChallenger pushes for wins on every issue.
	StrategyChallenger StrategyCode = "C"
	// StrategyTerminator demands total victory.
	StrategyTerminator StrategyCode = "H"
)

// strategyOrder is the fixed tie-break order used for every tally.
var strategyOrder = [...]StrategyCode{
	StrategyPeoplePleaser,
	StrategyDiplomat,
	StrategyChallenger,
	StrategyTerminator,
}

// StrategyCodes returns the four codes in tie-break order (G, B, C, H).
func StrategyCodes() []StrategyCode {
	out := make([]StrategyCode, len(strategyOrder))
	copy(out, strategyOrder[:])
	return out
}

// Valid reports whether c is one of the four known codes.
func (c StrategyCode) Valid() bool {
	for _, known := range strategyOrder {
		if c == known {
			return true
		}
	}
	return false
}

// ParseStrategyCode converts a single-letter code into a StrategyCode.
func ParseStrategyCode(s string) (StrategyCode, error) {
	code := StrategyCode(s)
	if !code.Valid() {
		return "", fmt.Errorf("unknown strategy code %q", s)
	}
	return code, nil
}

// StrategyCounts holds the tally for each strategy code.
// All four codes are always present once produced by the scorer.
type StrategyCounts map[StrategyCode]int

// Total returns the sum of all tallies.
func (sc StrategyCounts) Total() int {
	total := 0
	for _, n := range sc {
		total += n
	}
	return total
}

// MarshalJSON writes the counts with keys in G, B, C, H order.
func (sc StrategyCounts) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, code := range strategyOrder {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(string(code))
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, []byte(fmt.Sprintf("%d", sc[code]))...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// StrategyInfo is the descriptive reference entry for one strategy.
type StrategyInfo struct {
	Code        StrategyCode `json:"code" yaml:"code"`
	Label       string       `json:"label" yaml:"label"`
	Description string       `json:"description" yaml:"description"`
	Strength    string       `json:"strength" yaml:"strength"`
	WatchOut    string       `json:"watch_out" yaml:"watch_out"`
}

// MatchupRule describes the risk and tip for a strategy facing a set of ex strategies.
type MatchupRule struct {
	Your StrategyCode   `json:"your" yaml:"your"`
	Ex   []StrategyCode `json:"ex" yaml:"ex"`
	Risk string         `json:"risk" yaml:"risk"`
	Tip  string         `json:"tip" yaml:"tip"`
}

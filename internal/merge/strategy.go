// Package merge reconciles a working copy with a target version by three-way
// comparison against the version it was checked out from.
package merge

import "fmt"

// Strategy resolves conflicts for every conflicted component in a batch.
type Strategy string

const (
	// StrategyOurs keeps the working copy untouched and only rebinds the version.
	StrategyOurs Strategy = "ours"
	// StrategyTheirs adopts the target version wholesale.
	StrategyTheirs Strategy = "theirs"
	// StrategyManual writes conflict markers for the user to resolve.
	StrategyManual Strategy = "manual"
)

// Strategies lists every strategy in prompt order.
var Strategies = []Strategy{StrategyOurs, StrategyTheirs, StrategyManual}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyOurs, StrategyTheirs, StrategyManual:
		return true
	}
	return false
}

// ParseStrategy parses a strategy name. The empty string means no strategy.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return "", nil
	}
	st := Strategy(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid merge strategy '%s' — must be one of: ours, theirs, manual", s)
	}
	return st, nil
}

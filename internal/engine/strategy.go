package engine

import (
	"context"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/merge"
)

// Prompter asks the user for a strategy covering every conflicted component.
type Prompter interface {
	SelectStrategy(ctx context.Context, conflicted []component.ID) (merge.Strategy, error)
}

// StrategyResolver picks the single strategy used for a conflicted batch.
type StrategyResolver struct {
	Prompter Prompter
}

// Resolve returns the explicit strategy when given. Otherwise it prompts
// when allowed, and fails with ErrMergeBlocked naming the first conflicted
// component when not. conflicted must not be empty.
func (r *StrategyResolver) Resolve(ctx context.Context, explicit merge.Strategy, prompt bool, conflicted []component.ID) (merge.Strategy, error) {
	if explicit != "" {
		if _, err := merge.ParseStrategy(string(explicit)); err != nil {
			return "", err
		}
		return explicit, nil
	}
	if !prompt || r.Prompter == nil {
		return "", errMergeBlocked(conflicted[0])
	}

	s, err := r.Prompter.SelectStrategy(ctx, conflicted)
	if err != nil {
		return "", err
	}
	if !s.Valid() {
		return "", errMergeBlocked(conflicted[0])
	}
	return s, nil
}

// Package prompt asks the user how to resolve merge conflicts.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/merge"
)

// FormRunner runs a form to completion.
type FormRunner func(ctx context.Context, form *huh.Form) error

// StrategyPrompt selects a merge strategy interactively.
type StrategyPrompt struct {
	// Run defaults to running the form in the terminal.
	Run FormRunner
}

// New returns a StrategyPrompt bound to the terminal.
func New() *StrategyPrompt {
	return &StrategyPrompt{}
}

// SelectStrategy asks for one strategy applied to every conflicted component.
func (p *StrategyPrompt) SelectStrategy(ctx context.Context, conflicted []component.ID) (merge.Strategy, error) {
	choice := merge.StrategyManual

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[merge.Strategy]().
				Title("Merge conflicts detected").
				Description(Describe(conflicted)).
				Options(
					huh.NewOption("ours - keep local files, only update the version", merge.StrategyOurs),
					huh.NewOption("theirs - replace local files with the new version", merge.StrategyTheirs),
					huh.NewOption("manual - write conflict markers to resolve by hand", merge.StrategyManual),
				).
				Value(&choice),
		),
	)

	run := p.Run
	if run == nil {
		run = func(ctx context.Context, form *huh.Form) error { return form.RunWithContext(ctx) }
	}
	if err := run(ctx, form); err != nil {
		return "", fmt.Errorf("selecting merge strategy: %w", err)
	}
	if !choice.Valid() {
		return "", fmt.Errorf("selecting merge strategy: unexpected choice '%s'", choice)
	}
	return choice, nil
}

// Describe lists the conflicted components for the prompt body.
func Describe(conflicted []component.ID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d component(s) have conflicts between local edits and the requested version:\n", len(conflicted))
	for _, id := range conflicted {
		b.WriteString("  - ")
		b.WriteString(id.String())
		b.WriteString("\n")
	}
	b.WriteString("\nThe selected strategy applies to all of them.")
	return b.String()
}

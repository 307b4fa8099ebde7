package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/merge"
)

func TestSelectStrategyDefaultsToManual(t *testing.T) {
	var ran bool
	p := &StrategyPrompt{Run: func(ctx context.Context, form *huh.Form) error {
		ran = true
		return nil
	}}

	got, err := p.SelectStrategy(context.Background(), []component.ID{{Name: "x", Version: "1.1.0"}})
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if !ran {
		t.Fatal("form was not run")
	}
	if got != merge.StrategyManual {
		t.Errorf("strategy = %q, want manual", got)
	}
}

func TestSelectStrategyAborted(t *testing.T) {
	p := &StrategyPrompt{Run: func(ctx context.Context, form *huh.Form) error {
		return huh.ErrUserAborted
	}}

	_, err := p.SelectStrategy(context.Background(), nil)
	if !errors.Is(err, huh.ErrUserAborted) {
		t.Fatalf("err = %v, want ErrUserAborted", err)
	}
}

func TestDescribe(t *testing.T) {
	got := Describe([]component.ID{
		{Name: "button", Namespace: "ui", Version: "1.1.0"},
		{Name: "theme", Version: "2.0.0"},
	})
	for _, want := range []string{"2 component(s)", "ui/button@1.1.0", "theme@2.0.0", "applies to all"} {
		if !strings.Contains(got, want) {
			t.Errorf("description missing %q:\n%s", want, got)
		}
	}
}

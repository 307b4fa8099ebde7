package merge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bianoble/versync/internal/component"
)

func files(kv ...string) []component.File {
	var out []component.File
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, component.File{Path: kv[i], Content: []byte(kv[i+1])})
	}
	return out
}

func reconcile(t *testing.T, base, other, current []component.File) *Outcome {
	t.Helper()
	out, err := NewReconciler().Reconcile(context.Background(), Input{
		Base:         base,
		Other:        other,
		Current:      current,
		OtherLabel:   "local",
		CurrentLabel: "1.1.0",
	})
	require.NoError(t, err)
	require.NoError(t, out.Validate())
	return out
}

func TestReconcileClassification(t *testing.T) {
	tests := []struct {
		name          string
		base, other   []component.File
		current       []component.File
		wantModified  map[string]string
		wantConflicts []string
		wantAdded     []string
	}{
		{
			name:    "no edits",
			base:    files("f", "a\n"),
			other:   files("f", "a\n"),
			current: files("f", "a\n"),
		},
		{
			name:         "upstream edit only",
			base:         files("f", "a\n"),
			other:        files("f", "a\n"),
			current:      files("f", "b\n"),
			wantModified: map[string]string{"f": "b\n"},
		},
		{
			name:    "local edit only",
			base:    files("f", "a\n"),
			other:   files("f", "local\n"),
			current: files("f", "a\n"),
		},
		{
			name:         "identical edits",
			base:         files("f", "a\n"),
			other:        files("f", "same\n"),
			current:      files("f", "same\n"),
			wantModified: map[string]string{"f": "same\n"},
		},
		{
			name:          "divergent edits",
			base:          files("f", "line 1\nline 2\nline 3\n"),
			other:         files("f", "line 1\nline 2 local\nline 3\n"),
			current:       files("f", "line 1\nline 2 upstream\nline 3\n"),
			wantConflicts: []string{"f"},
		},
		{
			name:      "new upstream file",
			base:      files("f", "a\n"),
			other:     files("f", "a\n"),
			current:   files("f", "a\n", "g", "new\n"),
			wantAdded: []string{"g"},
		},
		{
			name:    "upstream deletion leaves working file alone",
			base:    files("f", "a\n", "g", "old\n"),
			other:   files("f", "a\n", "g", "edited\n"),
			current: files("f", "a\n"),
		},
		{
			name:    "local new file stands",
			base:    files("f", "a\n"),
			other:   files("f", "a\n", "mine", "x\n"),
			current: files("f", "a\n"),
		},
		{
			name:      "local deletion with upstream change restores file",
			base:      files("f", "a\n", "g", "old\n"),
			other:     files("f", "a\n"),
			current:   files("f", "a\n", "g", "new\n"),
			wantAdded: []string{"g"},
		},
		{
			name:    "local deletion without upstream change stays deleted",
			base:    files("f", "a\n", "g", "old\n"),
			other:   files("f", "a\n"),
			current: files("f", "a\n", "g", "old\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := reconcile(t, tt.base, tt.other, tt.current)

			gotModified := map[string]string{}
			var gotConflicts []string
			for _, m := range out.Modified {
				if m.HasConflict() {
					gotConflicts = append(gotConflicts, m.Path)
					continue
				}
				gotModified[m.Path] = string(m.Output)
			}
			var gotAdded []string
			for _, a := range out.Added {
				gotAdded = append(gotAdded, a.Path)
			}

			if tt.wantModified == nil {
				tt.wantModified = map[string]string{}
			}
			assert.Equal(t, tt.wantModified, gotModified)
			assert.Equal(t, tt.wantConflicts, gotConflicts)
			assert.Equal(t, tt.wantAdded, gotAdded)
			assert.Equal(t, len(tt.wantConflicts) > 0, out.HasConflicts)
			assert.Empty(t, out.Overridden)
		})
	}
}

func TestReconcileNonOverlappingEditsMergeCleanly(t *testing.T) {
	base := files("f", "line 1\nline 2\nline 3\nline 4\nline 5\n")
	other := files("f", "line 1\nline 2 local\nline 3\nline 4\nline 5\n")
	current := files("f", "line 1\nline 2\nline 3\nline 4\nline 5 upstream\n")

	out := reconcile(t, base, other, current)

	require.Len(t, out.Modified, 1)
	assert.False(t, out.HasConflicts)
	merged := string(out.Modified[0].Output)
	assert.Contains(t, merged, "line 2 local")
	assert.Contains(t, merged, "line 5 upstream")
}

func TestReconcileConflictMarkers(t *testing.T) {
	base := files("f", "a\nb\nc\n")
	other := files("f", "a\nlocal\nc\n")
	current := files("f", "a\nupstream\nc\n")

	out := reconcile(t, base, other, current)

	require.Len(t, out.Modified, 1)
	conflict := string(out.Modified[0].Conflict)
	assert.Contains(t, conflict, "<<<<<<<")
	assert.Contains(t, conflict, "=======")
	assert.Contains(t, conflict, ">>>>>>>")
	assert.Contains(t, conflict, "local")
	assert.Contains(t, conflict, "upstream")
	assert.Nil(t, out.Modified[0].Output)
	assert.Equal(t, []string{"f"}, out.ConflictedPaths())
}

func TestReconcileBinaryConflict(t *testing.T) {
	base := files("img.bin", "\x00base")
	other := files("img.bin", "\x00local")
	current := files("img.bin", "\x00upstream")

	out := reconcile(t, base, other, current)

	require.Len(t, out.Modified, 1)
	assert.True(t, out.Modified[0].Binary)
	assert.True(t, out.HasConflicts)

	assert.Equal(t, []string{"img.bin"}, out.ConflictedPaths())
	assert.Empty(t, out.Overridden)
	require.NoError(t, out.Validate())
}

func TestReconcileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReconciler().Reconcile(ctx, Input{Current: files("f", "x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutcomeValidate(t *testing.T) {
	bad := &Outcome{Modified: []ModifiedFile{{Path: "f"}}}
	assert.Error(t, bad.Validate())

	mismatch := &Outcome{Modified: []ModifiedFile{{Path: "f", Conflict: []byte("x")}}}
	assert.Error(t, mismatch.Validate())

	ok := &Outcome{HasConflicts: true, Modified: []ModifiedFile{{Path: "f", Conflict: []byte("x")}}}
	assert.NoError(t, ok.Validate())
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Strategy(""), got)

	_, err = ParseStrategy("mine")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "ours, theirs, manual"))
}

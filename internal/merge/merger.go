package merge

import (
	"bytes"
	"fmt"
	"io"

	"github.com/epiclabs-io/diff3"
)

// binarySniffLen matches the prefix git inspects when deciding whether a blob is binary.
const binarySniffLen = 8000

// Merger performs a line-level three-way merge of a single file.
type Merger interface {
	Merge(base, other, current []byte, otherLabel, currentLabel string) (*FileResult, error)
}

// FileResult holds the merged content of a single file.
type FileResult struct {
	Content      []byte
	HasConflicts bool
}

// TextMerger merges text with the diff3 algorithm, resolving
// non-overlapping edits and writing git-style markers around overlapping ones.
type TextMerger struct{}

// NewTextMerger returns a diff3 backed merger.
func NewTextMerger() *TextMerger {
	return &TextMerger{}
}

// Merge merges other (local edits) and current (upstream) against base.
func (m *TextMerger) Merge(base, other, current []byte, otherLabel, currentLabel string) (*FileResult, error) {
	if bytes.Equal(other, current) {
		return &FileResult{Content: bytes.Clone(current)}, nil
	}
	if bytes.Equal(other, base) {
		return &FileResult{Content: bytes.Clone(current)}, nil
	}
	if bytes.Equal(current, base) {
		return &FileResult{Content: bytes.Clone(other)}, nil
	}

	result, err := diff3.Merge(
		bytes.NewReader(other),
		bytes.NewReader(base),
		bytes.NewReader(current),
		true,
		otherLabel,
		currentLabel,
	)
	if err != nil {
		return nil, fmt.Errorf("diff3 merge failed: %w", err)
	}

	merged, err := io.ReadAll(result.Result)
	if err != nil {
		return nil, fmt.Errorf("reading merge result: %w", err)
	}
	if merged == nil {
		merged = []byte{}
	}

	return &FileResult{Content: merged, HasConflicts: result.Conflicts}, nil
}

// IsBinary reports whether content looks binary.
func IsBinary(content []byte) bool {
	n := len(content)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	return bytes.IndexByte(content[:n], 0) >= 0
}

// wholeFileConflict renders markers around both complete versions. It is used
// where a line merge is not attempted.
func wholeFileConflict(other, current []byte, otherLabel, currentLabel string) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<< " + otherLabel + "\n")
	buf.Write(other)
	if len(other) > 0 && other[len(other)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("=======\n")
	buf.Write(current)
	if len(current) > 0 && current[len(current)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(">>>>>>> " + currentLabel + "\n")
	return buf.Bytes()
}

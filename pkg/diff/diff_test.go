package diff

import (
	"strings"
	"testing"
)

func TestAnnotations_IdenticalContent(t *testing.T) {
	before := []byte("line1\nline2\nline3\n")
	after := []byte("line1\nline2\nline3\n")

	result, changed := Annotations(before, after, "workflow.go")

	if changed {
		t.Errorf("expected unchanged for identical content, got diff: %s", result)
	}
	if result != "" {
		t.Errorf("expected empty diff for identical content, got: %s", result)
	}
}

func TestAnnotations_SingleLineChange(t *testing.T) {
	before := []byte("line1\nline2\nline3\n")
	after := []byte("line1\nmodified\nline3\n")

	result, changed := Annotations(before, after, "workflow.go")

	if !changed {
		t.Error("expected changed for different content")
	}
	if !strings.Contains(result, "--- workflow.go (current)") || !strings.Contains(result, "+++ workflow.go (regenerated)") {
		t.Error("diff should contain current/regenerated unified-diff headers")
	}
	if !strings.Contains(result, "-line2") {
		t.Error("diff should show removed line with - prefix")
	}
	if !strings.Contains(result, "+modified") {
		t.Error("diff should show added line with + prefix")
	}
}

func TestAnnotations_MultiLineChanges(t *testing.T) {
	before := []byte("line1\nline2\nline3\nline4\nline5\n")
	after := []byte("line1\nmodified2\nmodified3\nline4\nline5\n")

	result, changed := Annotations(before, after, "workflow.go")

	if !changed {
		t.Error("expected changed for different content")
	}
	if !strings.Contains(result, " line1") || !strings.Contains(result, " line4") {
		t.Error("diff should include context lines")
	}
	if !strings.Contains(result, "modified") {
		t.Error("diff should show modified lines")
	}
	if !strings.Contains(result, "-") || !strings.Contains(result, "+") {
		t.Error("diff should contain both additions and removals")
	}
}

func TestAnnotations_Truncation(t *testing.T) {
	var beforeLines []string
	var afterLines []string

	for i := 0; i < 11000; i++ {
		beforeLines = append(beforeLines, "current line")
		if i%2 == 0 {
			afterLines = append(afterLines, "regenerated line")
		} else {
			afterLines = append(afterLines, "current line")
		}
	}

	before := []byte(strings.Join(beforeLines, "\n"))
	after := []byte(strings.Join(afterLines, "\n"))

	result, changed := Annotations(before, after, "workflow.go")

	if !changed {
		t.Error("expected changed for different content")
	}
	if !strings.Contains(result, "truncated") {
		t.Error("large diff should be truncated with truncation message")
	}

	lineCount := strings.Count(result, "\n")
	if lineCount > 10100 {
		t.Errorf("truncated diff should not exceed ~10,000 lines, got %d", lineCount)
	}
}

func TestAnnotations_EmptyBefore(t *testing.T) {
	before := []byte("")
	after := []byte("new content\n")

	result, changed := Annotations(before, after, "workflow.go")

	if !changed {
		t.Error("expected changed when adding content to an empty splice")
	}
	if !strings.Contains(result, "+new content") {
		t.Error("diff should show added content")
	}
}

func TestAnnotations_LabelsUseSamePath(t *testing.T) {
	before := []byte("old")
	after := []byte("new")

	result, _ := Annotations(before, after, "internal/workflows/order.go")

	if !strings.Contains(result, "--- internal/workflows/order.go (current)") {
		t.Error("diff should label the current side with the splice path")
	}
	if !strings.Contains(result, "+++ internal/workflows/order.go (regenerated)") {
		t.Error("diff should label the regenerated side with the same splice path")
	}
}

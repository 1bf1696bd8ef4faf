package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// Annotations computes a unified diff between a source file's content
// before and after internal/compile.GenerateInPlace splices a regenerated
// annotation block into it. Both sides are the same path at different
// points in the splice, so the hunk headers read "current"/"regenerated"
// rather than carrying two arbitrary file labels.
//
// Returns ("", false) when the splice produced no change, so callers get
// GenerateInPlace's HasChanges signal and a human-readable preview from the
// same comparison instead of diffing twice.
func Annotations(before, after []byte, path string) (text string, changed bool) {
	if bytes.Equal(before, after) {
		return "", false
	}

	dmp := diffmatchpatch.New()
	beforeStr := string(before)
	afterStr := string(after)

	diffs := dmp.DiffMain(beforeStr, afterStr, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s (current)\n", path)
	fmt.Fprintf(&buf, "+++ %s (regenerated)\n", path)

	beforeLines := strings.Split(beforeStr, "\n")
	afterLines := strings.Split(afterStr, "\n")
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", len(beforeLines), len(afterLines))

	for _, d := range diffs {
		t := d.Text
		lines := strings.Split(t, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" && t[len(t)-1] == '\n' {
			lines = lines[:len(lines)-1]
		}

		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			prefix = " "
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range lines {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		truncated := strings.Join(lines[:maxDiffLines], "\n")
		return truncated + "\n" + truncateMessage + "\n", true
	}
	return result, true
}

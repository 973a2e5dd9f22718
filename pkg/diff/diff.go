// Package diff renders human-readable membership changes for run reports
// and notification bodies.
package diff

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// RenderMembership produces a unified-diff style rendering of a membership
// change, one resource ID per line. Returns empty string when the sets are
// identical.
func RenderMembership(current, desired []string, currentLabel, desiredLabel string) string {
	currentText := membershipText(current)
	desiredText := membershipText(desired)
	if currentText == desiredText {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(currentText, desiredText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", currentLabel)
	fmt.Fprintf(&buf, "+++ %s\n", desiredLabel)

	for _, d := range diffs {
		lines := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			writeLines(&buf, " ", lines)
		case diffmatchpatch.DiffDelete:
			writeLines(&buf, "-", lines)
		case diffmatchpatch.DiffInsert:
			writeLines(&buf, "+", lines)
		}
	}

	result := buf.String()
	resultLines := strings.Split(result, "\n")
	if len(resultLines) > maxDiffLines {
		truncated := strings.Join(resultLines[:maxDiffLines], "\n")
		return truncated + "\n" + truncateMessage + "\n"
	}

	return result
}

func membershipText(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	if len(sorted) == 0 {
		return ""
	}
	return strings.Join(sorted, "\n") + "\n"
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(buf *bytes.Buffer, prefix string, lines []string) {
	for _, line := range lines {
		buf.WriteString(prefix)
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

package tools

import (
	"fmt"
	"strings"
)

const defaultViewLimit = 200 // lines shown when no view_range is given
const truncationSentinel = "-- truncated; use view_range to fetch more --\n"
const maxLineRunes = 2000     // per-line clamp
const overallRuneCap = 12_000 // overall cap after join

// clampRunes shortens s to at most n runes and reports whether it did.
func clampRunes(s string, n int) (string, bool) {
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	if n <= 0 {
		return "", true
	}
	return string(r[:n]), true
}

// view lists a directory or prints a file with 1-based line numbers.
// Output is capped so results stay small; a trailing sentinel marks truncation.
func (e *editor) view(in EditorInput) (string, error) {
	rel := workspacePath(in.Path)
	isDir, err := e.ws.IsDir(rel)
	if err != nil {
		return "", err
	}
	if isDir {
		names, err := e.ws.ListDir(rel)
		if err != nil {
			return "", err
		}
		return strings.Join(names, "\n"), nil
	}

	content, err := e.ws.ReadFile(rel)
	if err != nil {
		return "", err
	}
	lines := strings.Split(content, "\n")

	start, end, err := lineWindow(in.ViewRange, len(lines))
	if err != nil {
		return "", err
	}
	truncated := false
	if in.ViewRange == nil && end-start > defaultViewLimit {
		end = start + defaultViewLimit
		truncated = true
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		line, did := clampRunes(lines[i], maxLineRunes)
		truncated = truncated || did
		fmt.Fprintf(&b, "%6d\t%s\n", i+1, line)
	}

	out := b.String()
	if capped, did := clampRunes(out, overallRuneCap); did {
		out = capped
		truncated = true
	}
	if truncated {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += truncationSentinel
	}
	return out, nil
}

// lineWindow converts a 1-based inclusive [start, end] range into slice
// bounds over n lines. A nil range selects everything; end -1 means the last line.
func lineWindow(r []int, n int) (int, int, error) {
	if r == nil {
		return 0, n, nil
	}
	if len(r) != 2 {
		return 0, 0, invalid("view_range must have exactly two elements")
	}
	start, end := r[0], r[1]
	if end == -1 {
		end = n
	}
	if start < 1 || start > n || end < start || end > n {
		return 0, 0, invalid(fmt.Sprintf("view_range %v is outside the file's %d lines", r, n))
	}
	return start - 1, end, nil
}

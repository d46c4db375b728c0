package pyast

import (
	"strings"
)

// docstring returns the first statement of body when it is a plain string
// literal, cleaned up the way Python's inspect.cleandoc does.
func docstring(body []Stmt) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	stmt, ok := body[0].(*ExprStmt)
	if !ok {
		return "", false
	}
	c, ok := stmt.Value.(*Constant)
	if !ok || c.Kind != ConstString {
		return "", false
	}
	return CleanDoc(c.Value), true
}

// CleanDoc removes the indentation a docstring picks up from the code around
// it. The first line is left-stripped, the smallest indentation of the
// remaining non-blank lines is removed from all of them, and blank lines at
// either end are dropped.
func CleanDoc(doc string) string {
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		indent := len(line) - len(content)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n")
}

// expandTabs replaces tabs with spaces using 8 column tab stops.
func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

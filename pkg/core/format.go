package core

import "strings"

// FormatQuery tidies a multi-line statement for logs and debug output.
// Blank lines are dropped and indentation is rebuilt from changes in leading
// tab depth, one tab per level, starting flush left. The output is not meant
// to be executed.
func FormatQuery(sql string) string {
	lines := strings.Split(sql, "\n")
	result := make([]string, 0, len(lines))

	prevTabs := 0
	indent := 0
	for _, line := range lines {
		tabs := len(line) - len(strings.TrimLeft(line, "\t"))
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case tabs > prevTabs:
			indent++
		case tabs < prevTabs:
			indent--
		}
		if indent < 0 || len(result) == 0 {
			indent = 0
		}

		result = append(result, strings.Repeat("\t", indent)+line)
		prevTabs = tabs
	}

	return strings.Join(result, "\n")
}

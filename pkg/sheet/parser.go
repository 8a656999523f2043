// Package sheet turns the CSV export of the candidate spreadsheet into
// normalized candidate records.
package sheet

import "strings"

// ParseLine splits one CSV line into fields. Quoted fields may contain
// commas and doubled quotes ("") for a literal quote. Malformed quoting
// never fails; the line is tokenized best-effort. Fields are trimmed.
// An empty line yields a single empty field.
func ParseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// SplitLines splits export text on \n, dropping the \r of CRLF endings.
// Trailing empty lines are removed; interior blank lines are kept so that
// physical row positions stay stable.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Parse tokenizes every line of text.
func Parse(text string) [][]string {
	lines := SplitLines(text)
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = ParseLine(l)
	}
	return rows
}

// IsBlank reports whether every field of row is empty.
func IsBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

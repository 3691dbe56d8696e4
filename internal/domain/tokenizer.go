package domain

import "strings"

// Tokenize splits raw CSV text into rows of trimmed fields. Blank lines are
// discarded. Returns ErrEmptyInput when the text contains no content at all.
//
// No internal state survives the call; re-tokenizing the same text yields
// the same rows.
func Tokenize(text string) ([][]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, tokenizeLine(line))
	}
	return rows, nil
}

// tokenizeLine splits one CSV line on commas, honoring double-quoted fields.
// A doubled quote inside a quoted field is emitted as a literal quote.
// Surrounding whitespace is trimmed from each field.
func tokenizeLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))
	return fields
}

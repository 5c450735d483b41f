package lead

import (
	"strings"

	"github.com/m3rciful/leadbot/core/telegram/format"
)

// Summary renders an operator-facing Markdown summary of the lead,
// following the given column order and skipping the timestamp column
// (the submit time gets its own line).
func Summary(l Lead, columns []string) string {
	var b strings.Builder
	b.WriteString("*New lead*\n")
	b.WriteString("Submitted: " + l.SubmittedAt.Format(TimestampLayout) + "\n")
	for _, col := range columns {
		if col == ColTimestamp {
			continue
		}
		value := l.Get(col)
		if col != ColUserID {
			// User-typed text must not break the operator message markup.
			if escaped, err := format.EscapeMarkdown(value, format.MarkdownV1); err == nil {
				value = escaped
			}
		}
		b.WriteString(columnLabel(col) + ": " + value + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func columnLabel(col string) string {
	col = strings.ReplaceAll(col, "_", " ")
	if col == "" {
		return col
	}
	return strings.ToUpper(col[:1]) + col[1:]
}

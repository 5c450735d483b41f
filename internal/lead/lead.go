package lead

import (
	"context"
	"strconv"
	"time"
)

// TimestampLayout is the wire format of the timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Bookkeeping columns present in every row layout.
const (
	ColTimestamp = "timestamp"
	ColUserID    = "user_id"
)

// Lead is one completed dialogue, ready to be persisted as a single row.
// Values holds the answered fields keyed by column name; fields the active
// variant never asked stay absent and persist as empty strings.
type Lead struct {
	SubmittedAt time.Time
	UserID      int64
	Values      map[string]string
}

// Get returns the value for a column, mapping the bookkeeping columns.
func (l Lead) Get(column string) string {
	switch column {
	case ColTimestamp:
		return l.SubmittedAt.Format(TimestampLayout)
	case ColUserID:
		return strconv.FormatInt(l.UserID, 10)
	}
	return l.Values[column]
}

// Row renders the lead in the given column order.
func (l Lead) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = l.Get(col)
	}
	return row
}

// FromRecord rebuilds a Lead from a stored row using the column order it
// was written with. Short records are tolerated; missing cells read empty.
func FromRecord(columns, record []string) Lead {
	l := Lead{Values: make(map[string]string, len(columns))}
	for i, col := range columns {
		var v string
		if i < len(record) {
			v = record[i]
		}
		switch col {
		case ColTimestamp:
			if ts, err := time.ParseInLocation(TimestampLayout, v, time.Local); err == nil {
				l.SubmittedAt = ts
			}
		case ColUserID:
			l.UserID, _ = strconv.ParseInt(v, 10, 64)
		default:
			l.Values[col] = v
		}
	}
	return l
}

// Store persists leads as append-only rows.
type Store interface {
	Append(ctx context.Context, l Lead) error
	All(ctx context.Context) ([]Lead, error)
}

// Notifier delivers plain messages to a chat, used for operator alerts.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

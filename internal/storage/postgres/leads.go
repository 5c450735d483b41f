package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/leadbot/core/logger"
	"github.com/m3rciful/leadbot/internal/lead"
	"log/slog"
)

// leadRow mirrors the leads table. Unasked fields persist as empty strings
// so both dialogue variants share one schema.
type leadRow struct {
	SubmittedAt   time.Time `db:"submitted_at"`
	Name          string    `db:"name"`
	Phone         string    `db:"phone"`
	Goal          string    `db:"goal"`
	Experience    string    `db:"experience"`
	PreferredTime string    `db:"preferred_time"`
	Interest      string    `db:"interest"`
	InjuryNote    string    `db:"injury_note"`
	Service       string    `db:"service"`
	Branch        string    `db:"branch"`
	UserID        int64     `db:"user_id"`
}

// Store is the Postgres lead store.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open connection pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const insertLead = `
INSERT INTO leads (submitted_at, name, phone, goal, experience, preferred_time, interest, injury_note, service, branch, user_id)
VALUES (:submitted_at, :name, :phone, :goal, :experience, :preferred_time, :interest, :injury_note, :service, :branch, :user_id)`

// Append inserts the lead as one row.
func (s *Store) Append(ctx context.Context, l lead.Lead) error {
	row := leadRow{
		SubmittedAt:   l.SubmittedAt,
		Name:          l.Values["name"],
		Phone:         l.Values["phone"],
		Goal:          l.Values["goal"],
		Experience:    l.Values["experience"],
		PreferredTime: l.Values["preferred_time"],
		Interest:      l.Values["interest"],
		InjuryNote:    l.Values["injury_note"],
		Service:       l.Values["service"],
		Branch:        l.Values["branch"],
		UserID:        l.UserID,
	}
	if _, err := s.db.NamedExecContext(ctx, insertLead, row); err != nil {
		return fmt.Errorf("postgres: insert lead: %w", err)
	}
	logger.DB.Debug("lead inserted",
		slog.String("event", "lead.insert"),
		slog.Int64("user_id", l.UserID),
	)
	return nil
}

const selectLeads = `
SELECT submitted_at, name, phone, goal, experience, preferred_time, interest, injury_note, service, branch, user_id
FROM leads
ORDER BY submitted_at`

// All returns every stored lead in submit order.
func (s *Store) All(ctx context.Context) ([]lead.Lead, error) {
	var rows []leadRow
	if err := s.db.SelectContext(ctx, &rows, selectLeads); err != nil {
		return nil, fmt.Errorf("postgres: select leads: %w", err)
	}

	leads := make([]lead.Lead, 0, len(rows))
	for _, r := range rows {
		leads = append(leads, lead.Lead{
			SubmittedAt: r.SubmittedAt,
			UserID:      r.UserID,
			Values: map[string]string{
				"name":           r.Name,
				"phone":          r.Phone,
				"goal":           r.Goal,
				"experience":     r.Experience,
				"preferred_time": r.PreferredTime,
				"interest":       r.Interest,
				"injury_note":    r.InjuryNote,
				"service":        r.Service,
				"branch":         r.Branch,
			},
		})
	}
	return leads, nil
}

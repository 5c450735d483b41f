package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/leadbot/core/logger"
	"log/slog"
)

// Service implements the lead lifecycle around a Store: persist, notify
// the operator chat, and answer the daily count query.
type Service struct {
	store        Store
	notifier     Notifier
	operatorChat int64
	columns      []string
	now          func() time.Time
}

// NewService wires a lead service. A zero operatorChat disables notifications.
func NewService(store Store, notifier Notifier, operatorChat int64, columns []string) *Service {
	return &Service{
		store:        store,
		notifier:     notifier,
		operatorChat: operatorChat,
		columns:      columns,
		now:          time.Now,
	}
}

// Submit appends the lead as one row. Failure propagates to the caller;
// nothing downstream of persistence may run when this errors.
func (s *Service) Submit(ctx context.Context, l Lead) error {
	if err := s.store.Append(ctx, l); err != nil {
		logger.Error(ctx, "service.leads", "lead.append.failed",
			slog.Int64("user_id", l.UserID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("lead: append failed: %w", err)
	}
	logger.Info(ctx, "service.leads", "lead.appended",
		slog.Int64("user_id", l.UserID),
	)
	return nil
}

// Notify sends a formatted summary to the operator chat. Best-effort:
// failures are logged and swallowed, never surfaced to the user.
func (s *Service) Notify(ctx context.Context, l Lead) {
	if s.operatorChat == 0 || s.notifier == nil {
		return
	}
	text := Summary(l, s.columns)
	if err := s.notifier.Send(ctx, s.operatorChat, text); err != nil {
		logger.Warn(ctx, "service.leads", "lead.notify.failed",
			slog.Int64("user_id", l.UserID),
			slog.Int64("chat_id", s.operatorChat),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Debug(ctx, "service.leads", "lead.notified",
		slog.Int64("user_id", l.UserID),
		slog.Int64("chat_id", s.operatorChat),
	)
}

// CountToday scans all stored leads and counts those submitted today
// (local time). Read failures propagate; no partial count is reported.
func (s *Service) CountToday(ctx context.Context) (int, error) {
	leads, err := s.store.All(ctx)
	if err != nil {
		logger.Error(ctx, "service.leads", "lead.scan.failed",
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("lead: scan failed: %w", err)
	}

	today := s.now().Format("2006-01-02")
	count := 0
	for _, l := range leads {
		if l.SubmittedAt.IsZero() {
			continue
		}
		if l.SubmittedAt.Format("2006-01-02") == today {
			count++
		}
	}
	logger.Debug(ctx, "service.leads", "lead.count_today",
		slog.Int("rows", len(leads)),
		slog.Int("count", count),
	)
	return count, nil
}

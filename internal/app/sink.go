package app

import (
	"context"
	"time"

	"github.com/m3rciful/leadbot/internal/flow"
	"github.com/m3rciful/leadbot/internal/lead"
)

// leadSink adapts the lead service to the flow controller's sink contract.
type leadSink struct {
	svc *lead.Service
}

func (s leadSink) Commit(ctx context.Context, userID int64, values map[flow.Field]string, submittedAt time.Time) error {
	return s.svc.Submit(ctx, buildLead(userID, values, submittedAt))
}

func (s leadSink) Notify(ctx context.Context, userID int64, values map[flow.Field]string, submittedAt time.Time) {
	s.svc.Notify(ctx, buildLead(userID, values, submittedAt))
}

func buildLead(userID int64, values map[flow.Field]string, submittedAt time.Time) lead.Lead {
	vals := make(map[string]string, len(values))
	for f, v := range values {
		vals[string(f)] = v
	}
	return lead.Lead{
		SubmittedAt: submittedAt,
		UserID:      userID,
		Values:      vals,
	}
}

package lead

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testColumns = []string{"timestamp", "name", "phone", "service", "branch", "user_id"}

type fakeStore struct {
	rows      []Lead
	appendErr error
	allErr    error
}

func (f *fakeStore) Append(_ context.Context, l Lead) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, l)
	return nil
}

func (f *fakeStore) All(_ context.Context) ([]Lead, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.rows, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, _ int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func sampleLead(ts time.Time) Lead {
	return Lead{
		SubmittedAt: ts,
		UserID:      42,
		Values: map[string]string{
			"name":    "John",
			"phone":   "9876543210",
			"service": "Gym Trial",
			"branch":  "Main Branch",
		},
	}
}

func TestSubmitPropagatesStoreFailure(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("quota exceeded")}
	svc := NewService(store, &fakeNotifier{}, 100, testColumns)

	err := svc.Submit(context.Background(), sampleLead(time.Now()))
	if err == nil {
		t.Fatal("append failure must propagate")
	}
	if !errors.Is(err, store.appendErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestNotifySwallowsFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("chat not found")}
	svc := NewService(&fakeStore{}, notifier, 100, testColumns)

	// Must not panic and must not propagate.
	svc.Notify(context.Background(), sampleLead(time.Now()))
}

func TestNotifySkippedWithoutOperatorChat(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(&fakeStore{}, notifier, 0, testColumns)

	svc.Notify(context.Background(), sampleLead(time.Now()))
	if len(notifier.sent) != 0 {
		t.Fatal("no notification may be sent without an operator chat")
	}
}

func TestCountToday(t *testing.T) {
	now := time.Date(2026, 9, 1, 18, 0, 0, 0, time.Local)
	store := &fakeStore{rows: []Lead{
		sampleLead(time.Date(2026, 9, 1, 0, 0, 1, 0, time.Local)),
		sampleLead(time.Date(2026, 9, 1, 9, 15, 0, 0, time.Local)),
		sampleLead(time.Date(2026, 8, 31, 23, 59, 59, 0, time.Local)),
		{}, // unparseable timestamp reads as zero and is never counted
	}}
	svc := NewService(store, &fakeNotifier{}, 0, testColumns)
	svc.now = func() time.Time { return now }

	count, err := svc.CountToday(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 leads today, got %d", count)
	}
}

func TestCountTodayPropagatesReadFailure(t *testing.T) {
	store := &fakeStore{allErr: errors.New("read denied")}
	svc := NewService(store, &fakeNotifier{}, 0, testColumns)

	if _, err := svc.CountToday(context.Background()); err == nil {
		t.Fatal("read failure must propagate")
	}
}

package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordedPrompt struct {
	userID  int64
	text    string
	choices []Choice
}

type fakePrompter struct {
	prompts []recordedPrompt
}

func (f *fakePrompter) Prompt(_ context.Context, userID int64, text string, choices []Choice) error {
	f.prompts = append(f.prompts, recordedPrompt{userID: userID, text: text, choices: choices})
	return nil
}

func (f *fakePrompter) last(t *testing.T) recordedPrompt {
	t.Helper()
	if len(f.prompts) == 0 {
		t.Fatal("no prompt sent")
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeSink struct {
	commits   []map[Field]string
	notified  int
	commitErr error
}

func (f *fakeSink) Commit(_ context.Context, _ int64, values map[Field]string, _ time.Time) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, values)
	return nil
}

func (f *fakeSink) Notify(_ context.Context, _ int64, _ map[Field]string, _ time.Time) {
	f.notified++
}

func newTestController(t *testing.T, sink *fakeSink) (*Controller, *fakePrompter) {
	t.Helper()
	variant, err := VariantByName("basic")
	if err != nil {
		t.Fatalf("variant: %v", err)
	}
	prompter := &fakePrompter{}
	ctrl := NewController(variant, NewSessions(0), prompter, sink)
	ctrl.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 30, 0, 0, time.Local)
	}
	return ctrl, prompter
}

func TestControllerFullDialogue(t *testing.T) {
	sink := &fakeSink{}
	ctrl, prompter := newTestController(t, sink)
	ctx := context.Background()
	const userID = int64(42)

	if err := ctrl.Start(ctx, userID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !ctrl.InProgress(userID) {
		t.Fatal("session must be in progress after start")
	}

	if err := ctrl.HandleText(ctx, userID, "John"); err != nil {
		t.Fatalf("name: %v", err)
	}
	if err := ctrl.HandleText(ctx, userID, "9876543210"); err != nil {
		t.Fatalf("phone: %v", err)
	}

	// Branch question offers buttons.
	branchPrompt := prompter.last(t)
	if len(branchPrompt.choices) == 0 {
		t.Fatal("branch step must offer choices")
	}
	if err := ctrl.HandleChoice(ctx, userID, "Branch 2"); err != nil {
		t.Fatalf("branch: %v", err)
	}
	if err := ctrl.HandleChoice(ctx, userID, "Gym Trial"); err != nil {
		t.Fatalf("service: %v", err)
	}

	if len(sink.commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(sink.commits))
	}
	got := sink.commits[0]
	want := map[Field]string{
		FieldName:    "John",
		FieldPhone:   "9876543210",
		FieldBranch:  "Branch 2",
		FieldService: "Gym Trial",
	}
	for f, v := range want {
		if got[f] != v {
			t.Errorf("field %s: got %q, want %q", f, got[f], v)
		}
	}
	if sink.notified != 1 {
		t.Fatalf("expected 1 notification, got %d", sink.notified)
	}
	if ctrl.InProgress(userID) {
		t.Fatal("session must reset after commit")
	}

	// Ack is the final prompt.
	if !strings.Contains(prompter.last(t).text, "Thank you") {
		t.Fatalf("expected acknowledgment, got %q", prompter.last(t).text)
	}
}

func TestControllerInvalidPhoneRePrompts(t *testing.T) {
	sink := &fakeSink{}
	ctrl, prompter := newTestController(t, sink)
	ctx := context.Background()
	const userID = int64(7)

	_ = ctrl.Start(ctx, userID)
	_ = ctrl.HandleText(ctx, userID, "Jane")

	before := len(prompter.prompts)
	if err := ctrl.HandleText(ctx, userID, "12345"); err != nil {
		t.Fatalf("invalid phone must not error: %v", err)
	}
	if len(prompter.prompts) != before+1 {
		t.Fatal("expected an error re-prompt")
	}
	// State did not advance: a valid phone is still accepted here.
	if err := ctrl.HandleText(ctx, userID, "1234567890"); err != nil {
		t.Fatalf("valid phone after retry: %v", err)
	}
	if len(prompter.last(t).choices) == 0 {
		t.Fatal("expected to reach the branch choice step")
	}
}

func TestControllerWrongEventKind(t *testing.T) {
	sink := &fakeSink{}
	ctrl, prompter := newTestController(t, sink)
	ctx := context.Background()
	const userID = int64(9)

	_ = ctrl.Start(ctx, userID)

	// Button press while a text answer is expected.
	if err := ctrl.HandleChoice(ctx, userID, "Main Branch"); !errors.Is(err, ErrStaleChoice) {
		t.Fatalf("expected ErrStaleChoice, got %v", err)
	}

	_ = ctrl.HandleText(ctx, userID, "Ann")
	_ = ctrl.HandleText(ctx, userID, "9876543210")

	// Free text while buttons are expected: repeat the buttons, no advance.
	if err := ctrl.HandleText(ctx, userID, "Main Branch"); err != nil {
		t.Fatalf("text in choice state must not error: %v", err)
	}
	rePrompt := prompter.last(t)
	if len(rePrompt.choices) == 0 {
		t.Fatal("re-prompt must repeat the choice buttons")
	}

	// Selection outside the offered set is rejected.
	if err := ctrl.HandleChoice(ctx, userID, "Branch 99"); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected ErrUnknownChoice, got %v", err)
	}
	if len(sink.commits) != 0 {
		t.Fatal("nothing may commit before the final step")
	}
}

func TestControllerCommitFailure(t *testing.T) {
	sink := &fakeSink{commitErr: errors.New("store down")}
	ctrl, prompter := newTestController(t, sink)
	ctx := context.Background()
	const userID = int64(13)

	_ = ctrl.Start(ctx, userID)
	_ = ctrl.HandleText(ctx, userID, "Max")
	_ = ctrl.HandleText(ctx, userID, "9876543210")
	_ = ctrl.HandleChoice(ctx, userID, "Main Branch")

	err := ctrl.HandleChoice(ctx, userID, "Diet Plan")
	if err == nil {
		t.Fatal("commit failure must propagate")
	}
	if sink.notified != 0 {
		t.Fatal("no notification may be sent when persistence fails")
	}
	if strings.Contains(prompter.last(t).text, "Thank you") {
		t.Fatal("no success acknowledgment may be sent when persistence fails")
	}
	if ctrl.InProgress(userID) {
		t.Fatal("failed session must be dropped so the user can restart")
	}
}

func TestControllerNoSession(t *testing.T) {
	sink := &fakeSink{}
	ctrl, _ := newTestController(t, sink)
	ctx := context.Background()

	if err := ctrl.HandleText(ctx, 1, "hello"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := ctrl.HandleChoice(ctx, 1, "Main Branch"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

// blockingSink parks Commit until released so tests can overlap a commit
// with other registry activity.
type blockingSink struct {
	entered chan struct{}
	release chan struct{}
}

func (f *blockingSink) Commit(_ context.Context, _ int64, _ map[Field]string, _ time.Time) error {
	close(f.entered)
	<-f.release
	return nil
}

func (f *blockingSink) Notify(_ context.Context, _ int64, _ map[Field]string, _ time.Time) {}

func TestEvictDuringCommitDoesNotDeadlock(t *testing.T) {
	variant, err := VariantByName("basic")
	if err != nil {
		t.Fatalf("variant: %v", err)
	}
	sink := &blockingSink{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	sessions := NewSessions(30 * time.Minute)
	ctrl := NewController(variant, sessions, &fakePrompter{}, sink)
	ctx := context.Background()
	const userID = int64(31)

	_ = ctrl.Start(ctx, userID)
	_ = ctrl.HandleText(ctx, userID, "Eve")
	_ = ctrl.HandleText(ctx, userID, "9876543210")
	_ = ctrl.HandleChoice(ctx, userID, "Main Branch")

	commitDone := make(chan error, 1)
	go func() {
		commitDone <- ctrl.HandleChoice(ctx, userID, "Gym Trial")
	}()
	<-sink.entered

	// The janitor sweeping while a commit holds the session lock must
	// neither block nor take the registry down with it.
	evictDone := make(chan int, 1)
	go func() {
		evictDone <- sessions.Evict(time.Now().Add(24 * time.Hour))
	}()

	select {
	case n := <-evictDone:
		if n != 0 {
			t.Fatalf("the committing session must not be evicted, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Evict blocked against an in-flight commit")
	}

	close(sink.release)
	select {
	case err := <-commitDone:
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("commit blocked after eviction sweep")
	}
	if ctrl.InProgress(userID) {
		t.Fatal("session must reset after commit")
	}
}

// restartingSink opens a fresh dialogue for the same user from inside
// Commit, standing in for a /start that races a finishing commit.
type restartingSink struct {
	ctrl *Controller
}

func (f *restartingSink) Commit(ctx context.Context, userID int64, _ map[Field]string, _ time.Time) error {
	return f.ctrl.Start(ctx, userID)
}

func (f *restartingSink) Notify(_ context.Context, _ int64, _ map[Field]string, _ time.Time) {}

func TestCommitDropsOnlyItsOwnSession(t *testing.T) {
	variant, err := VariantByName("basic")
	if err != nil {
		t.Fatalf("variant: %v", err)
	}
	sink := &restartingSink{}
	prompter := &fakePrompter{}
	ctrl := NewController(variant, NewSessions(0), prompter, sink)
	sink.ctrl = ctrl
	ctx := context.Background()
	const userID = int64(37)

	_ = ctrl.Start(ctx, userID)
	_ = ctrl.HandleText(ctx, userID, "Kim")
	_ = ctrl.HandleText(ctx, userID, "9876543210")
	_ = ctrl.HandleChoice(ctx, userID, "Branch 2")
	if err := ctrl.HandleChoice(ctx, userID, "Diet Plan"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	// The post-commit cleanup must remove the committed session only,
	// not the replacement started while the commit was in flight.
	if !ctrl.InProgress(userID) {
		t.Fatal("session restarted during commit must survive the commit cleanup")
	}
}

func TestControllerRestartReplacesSession(t *testing.T) {
	sink := &fakeSink{}
	ctrl, _ := newTestController(t, sink)
	ctx := context.Background()
	const userID = int64(21)

	_ = ctrl.Start(ctx, userID)
	_ = ctrl.HandleText(ctx, userID, "Old Name")

	// /start mid-dialogue discards the draft and asks the first question again.
	if err := ctrl.Start(ctx, userID); err != nil {
		t.Fatalf("restart: %v", err)
	}
	_ = ctrl.HandleText(ctx, userID, "New Name")
	_ = ctrl.HandleText(ctx, userID, "1112223334")
	_ = ctrl.HandleChoice(ctx, userID, "Branch 3")
	if err := ctrl.HandleChoice(ctx, userID, "Personal Training"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if len(sink.commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(sink.commits))
	}
	if got := sink.commits[0][FieldName]; got != "New Name" {
		t.Fatalf("restart must discard the old draft, got name %q", got)
	}
}

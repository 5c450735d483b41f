package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m3rciful/leadbot/core/logger"
	"log/slog"
)

// Prompter delivers outbound prompts to a user. A non-empty choices list
// renders as selectable buttons; an empty list means a plain text prompt.
type Prompter interface {
	Prompt(ctx context.Context, userID int64, text string, choices []Choice) error
}

// Sink receives one completed dialogue as a field/value map.
// Commit persists the lead and its failure aborts the protocol.
// Notify is best-effort and must never fail the dialogue.
type Sink interface {
	Commit(ctx context.Context, userID int64, values map[Field]string, submittedAt time.Time) error
	Notify(ctx context.Context, userID int64, values map[Field]string, submittedAt time.Time)
}

var (
	// ErrStaleChoice marks a button press arriving in a text state.
	ErrStaleChoice = errors.New("choice event in a text state")
	// ErrUnknownChoice marks a selection outside the offered set.
	ErrUnknownChoice = errors.New("selection not in the offered set")
)

const (
	ackText        = "Thank you! Our team will contact you shortly. 💪"
	commitFailText = "Sorry, something went wrong on our side. Please try again with /start."
	useButtonsText = "Please pick one of the options below."
)

// Controller walks users through a variant's question list one step at a
// time and hands the finished draft to the sink.
type Controller struct {
	variant  Variant
	sessions *Sessions
	prompter Prompter
	sink     Sink
	now      func() time.Time
}

// NewController wires a controller for the given variant.
func NewController(variant Variant, sessions *Sessions, prompter Prompter, sink Sink) *Controller {
	return &Controller{
		variant:  variant,
		sessions: sessions,
		prompter: prompter,
		sink:     sink,
		now:      time.Now,
	}
}

// Variant returns the active question variant.
func (c *Controller) Variant() Variant { return c.variant }

// InProgress reports whether the user has an active dialogue.
func (c *Controller) InProgress(userID int64) bool {
	return c.sessions.InProgress(userID)
}

// Start opens a fresh dialogue for the user and sends the first prompt.
// Any previous session for the same user is discarded.
func (c *Controller) Start(ctx context.Context, userID int64) error {
	c.sessions.Start(userID)
	step := c.variant.Steps[0]
	logger.Debug(ctx, "flow", "session.start",
		slog.Int64("user_id", userID),
		slog.String("variant", c.variant.Name),
		slog.String("field", string(step.Field)),
	)
	return c.prompter.Prompt(ctx, userID, step.Prompt, step.Choices)
}

// HandleText processes a free-text reply for the user's current step.
func (c *Controller) HandleText(ctx context.Context, userID int64, text string) error {
	sess, ok := c.sessions.Get(userID)
	if !ok {
		return ErrNoSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = c.now()

	step, ok := c.variant.StepFor(sess.step)
	if !ok {
		return ErrNoSession
	}

	if step.Mode != ModeText {
		// Buttons are expected here; repeat them without advancing.
		logger.Debug(ctx, "flow", "input.wrong_kind",
			slog.Int64("user_id", userID),
			slog.String("field", string(step.Field)),
			slog.String("state", "choice"),
		)
		return c.prompter.Prompt(ctx, userID, useButtonsText+"\n\n"+step.Prompt, step.Choices)
	}

	if step.Validate != nil {
		if err := step.Validate(text); err != nil {
			logger.Debug(ctx, "flow", "input.invalid",
				slog.Int64("user_id", userID),
				slog.String("field", string(step.Field)),
				slog.String("err", err.Error()),
			)
			return c.prompter.Prompt(ctx, userID, capitalize(err.Error())+".\n\n"+step.Prompt, nil)
		}
	}

	return c.advance(ctx, sess, userID, step, text)
}

// HandleChoice processes a button selection for the user's current step.
// A press in a text state returns ErrStaleChoice; a value outside the
// step's choice set returns ErrUnknownChoice. Neither advances the state.
func (c *Controller) HandleChoice(ctx context.Context, userID int64, value string) error {
	sess, ok := c.sessions.Get(userID)
	if !ok {
		return ErrNoSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = c.now()

	step, ok := c.variant.StepFor(sess.step)
	if !ok {
		return ErrNoSession
	}

	if step.Mode != ModeChoice {
		return ErrStaleChoice
	}
	if !step.HasChoice(value) {
		logger.Debug(ctx, "flow", "choice.unknown",
			slog.Int64("user_id", userID),
			slog.String("field", string(step.Field)),
		)
		return ErrUnknownChoice
	}

	return c.advance(ctx, sess, userID, step, value)
}

// advance stores the accepted value and either prompts the next step or
// commits the finished draft. Caller holds the session lock.
func (c *Controller) advance(ctx context.Context, sess *session, userID int64, step Step, value string) error {
	sess.draft[step.Field] = value
	sess.step++

	if next, ok := c.variant.StepFor(sess.step); ok {
		logger.Debug(ctx, "flow", "step.advance",
			slog.Int64("user_id", userID),
			slog.String("field", string(step.Field)),
			slog.Int("step", sess.step),
		)
		return c.prompter.Prompt(ctx, userID, next.Prompt, next.Choices)
	}

	return c.commit(ctx, sess, userID)
}

func (c *Controller) commit(ctx context.Context, sess *session, userID int64) error {
	values := make(map[Field]string, len(sess.draft))
	for f, v := range sess.draft {
		values[f] = v
	}
	submittedAt := c.now()

	if err := c.sink.Commit(ctx, userID, values, submittedAt); err != nil {
		// The draft is gone either way; the user restarts with /start.
		c.sessions.Drop(userID, sess)
		if perr := c.prompter.Prompt(ctx, userID, commitFailText, nil); perr != nil {
			logger.Warn(ctx, "flow", "commit.fail_notice.failed",
				slog.Int64("user_id", userID),
				slog.String("err", perr.Error()),
			)
		}
		return fmt.Errorf("flow: commit failed for user %d: %w", userID, err)
	}

	logger.Info(ctx, "flow", "session.complete",
		slog.Int64("user_id", userID),
		slog.String("variant", c.variant.Name),
	)
	if err := c.prompter.Prompt(ctx, userID, ackText, nil); err != nil {
		// The lead is already persisted; a lost ack is not worth failing over.
		logger.Warn(ctx, "flow", "commit.ack.failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
	c.sink.Notify(ctx, userID, values, submittedAt)
	c.sessions.Drop(userID, sess)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}

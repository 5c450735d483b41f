package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/m3rciful/leadbot/core/logger"
	"github.com/m3rciful/leadbot/core/telegram/keyboard"
	tgsender "github.com/m3rciful/leadbot/core/telegram/sender"
	"github.com/m3rciful/leadbot/internal/flow"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// callbackUnique tags every dialogue choice button so the callback router
// can hand presses back to the flow controller.
const callbackUnique = "flow"

// botPrompter delivers flow prompts through the bot, asynchronously when
// a dispatcher is available. The bot is bound at startup.
type botPrompter struct {
	bot  atomic.Pointer[tele.Bot]
	disp atomic.Pointer[tgsender.Dispatcher]
}

func (p *botPrompter) bind(bot *tele.Bot, disp *tgsender.Dispatcher) {
	p.bot.Store(bot)
	if disp != nil {
		p.disp.Store(disp)
	}
}

// Prompt sends the question text, with one inline button per choice.
func (p *botPrompter) Prompt(ctx context.Context, userID int64, text string, choices []flow.Choice) error {
	bot := p.bot.Load()
	if bot == nil {
		return errors.New("app: prompter used before bot start")
	}

	var markup *tele.ReplyMarkup
	if len(choices) > 0 {
		btns := make([]keyboard.InlineBtn, len(choices))
		for i, ch := range choices {
			btns[i] = keyboard.InlineBtn{Text: ch.Label, Unique: callbackUnique, Data: ch.Value}
		}
		markup = keyboard.InlineButtonsNPerRow(btns, choiceButtonsPerRow(len(choices)))
	}

	to := &tele.User{ID: userID}
	run := func() error {
		var err error
		if markup != nil {
			_, err = bot.Send(to, text, markup)
		} else {
			_, err = bot.Send(to, text)
		}
		return err
	}

	disp := p.disp.Load()
	if disp == nil {
		return run()
	}
	if err := disp.Enqueue(ctx, "flow.prompt", "sendMessage", run); err != nil {
		if errors.Is(err, tgsender.ErrQueueFull) || errors.Is(err, tgsender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", "flow.prompt"),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return fmt.Errorf("app: prompt enqueue: %w", err)
	}
	return nil
}

// choiceButtonsPerRow keeps short choice sets on one button per row and
// folds larger ones into pairs so the keyboard stays compact.
func choiceButtonsPerRow(n int) int {
	if n > 3 {
		return 2
	}
	return 1
}

// botNotifier delivers operator notifications synchronously so delivery
// failures surface to the lead service, which swallows and logs them.
type botNotifier struct {
	bot atomic.Pointer[tele.Bot]
}

func (n *botNotifier) bind(bot *tele.Bot) {
	n.bot.Store(bot)
}

// Send posts a Markdown message to the chat.
func (n *botNotifier) Send(ctx context.Context, chatID int64, text string) error {
	bot := n.bot.Load()
	if bot == nil {
		return errors.New("app: notifier used before bot start")
	}
	_, err := bot.Send(&tele.Chat{ID: chatID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}

package app

import (
	"errors"
	"fmt"

	tg "github.com/m3rciful/leadbot/core/telegram"
	"github.com/m3rciful/leadbot/core/telegram/callbacks"
	"github.com/m3rciful/leadbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/leadbot/core/telegram/helpers"
	"github.com/m3rciful/leadbot/internal/flow"
	"github.com/m3rciful/leadbot/internal/lead"

	tele "gopkg.in/telebot.v4"
)

func buildRegistry(ctrl *flow.Controller, svc *lead.Service) (*tg.Registry, error) {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Description: "Begin the sign-up dialogue",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			return ctrl.Start(ctx, c.Sender().ID)
		},
	})

	reg.RegisterCommand("/leads_today", commands.Command{
		Description: "Count of leads captured today",
		AdminOnly:   true,
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			count, err := svc.CountToday(ctx)
			if err != nil {
				return err
			}
			return tghelpers.SendText(c, fmt.Sprintf("Leads today: %d", count))
		},
	})

	err := reg.RegisterCallback(callbackUnique, func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		value := callbacks.CallbackPayload(c)
		err := ctrl.HandleChoice(ctx, c.Sender().ID, value)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, flow.ErrNoSession):
			return tghelpers.SendText(c, "Send /start to begin.")
		case errors.Is(err, flow.ErrStaleChoice):
			return tghelpers.SendText(c, "That button is no longer active.")
		case errors.Is(err, flow.ErrUnknownChoice):
			return tghelpers.SendText(c, "Please pick one of the offered options.")
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: register %q callback: %w", callbackUnique, err)
	}

	reg.SetTextFallback(func(c tele.Context) error {
		return tghelpers.SendText(c, "Send /start to begin.")
	})

	return reg, nil
}

// conversation adapts the flow controller to the text router.
type conversation struct {
	ctrl *flow.Controller
}

func (cv conversation) InProgress(userID int64) bool {
	return cv.ctrl.InProgress(userID)
}

func (cv conversation) HandleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	err := cv.ctrl.HandleText(ctx, c.Sender().ID, c.Text())
	if errors.Is(err, flow.ErrNoSession) {
		// Session evicted between the router check and here.
		return tghelpers.SendText(c, "Your session expired. Send /start to begin again.")
	}
	return err
}

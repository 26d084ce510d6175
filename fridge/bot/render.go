package bot

import (
	"errors"
	"fmt"

	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"
	"github.com/m3rciful/fridgebot/core/telegram/keyboard"
	"github.com/m3rciful/fridgebot/fridge/dialog"
	"github.com/m3rciful/fridgebot/fridge/presenter"

	tele "gopkg.in/telebot.v4"
)

// Markup converts a view layout into an inline keyboard. Views without buttons yield nil.
func Markup(v presenter.View) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(v.Rows))
	for _, row := range v.Rows {
		r := make([]keyboard.InlineBtn, 0, len(row))
		for _, btn := range row {
			r = append(r, keyboard.InlineBtn{
				Text:   btn.Label,
				Unique: string(btn.Token.Kind),
				Data:   btn.Token.Value,
			})
		}
		rows = append(rows, r)
	}
	return keyboard.InlineButtonsRows(rows...)
}

func render(c tele.Context, resp dialog.Response) error {
	var errs []error
	if resp.Notice != "" {
		if err := tghelpers.Answer(c, resp.Notice); err != nil {
			errs = append(errs, fmt.Errorf("answer: %w", err))
		}
	}
	for _, msg := range resp.Messages {
		text, markup := msg.View.Text, Markup(msg.View)
		var err error
		switch msg.Delivery {
		case dialog.DeliverSend:
			err = tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: markup})
		case dialog.DeliverEdit:
			err = tghelpers.EditOrSend(c, text, markup)
		case dialog.DeliverRespond:
			err = tghelpers.Reply(c, text, markup)
		default:
			err = fmt.Errorf("%w: %d", errUnknownDelivery, msg.Delivery)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", msg.Delivery, err))
		}
	}
	return errors.Join(errs...)
}

package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/interactive-bot/internal/errors"
	"github.com/Proton-105/interactive-bot/internal/reply"
	"github.com/Proton-105/interactive-bot/pkg/metrics"
)

func send(c telebot.Context, r reply.Reply) error {
	opts, err := keyboard.SendOptions(r)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	if err := c.Send(r.Text, opts); err != nil {
		return apperrors.NewExternalAPIError("telegram send", err)
	}

	metrics.RecordReply(string(r.Kind))
	return nil
}

func edit(c telebot.Context, r reply.Reply) error {
	opts, err := keyboard.SendOptions(r)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	if err := c.Edit(r.Text, opts); err != nil {
		return apperrors.NewExternalAPIError("telegram edit", err)
	}

	metrics.RecordReply(string(r.Kind))
	return nil
}

func toSender(u *telebot.User) reply.Sender {
	if u == nil {
		return reply.Sender{}
	}

	return reply.Sender{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}

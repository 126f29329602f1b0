package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/reply"
	"github.com/Proton-105/interactive-bot/pkg/metrics"
)

// NewButtonHandler answers a pressed menu button. The callback is acknowledged before the edit so
// the client stops its spinner even when editing fails.
func NewButtonHandler(responder *reply.Responder, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		if err := c.Respond(); err != nil {
			log.Warn("failed to acknowledge callback", slog.String("callback_id", cb.ID), slog.Any("error", err))
		}

		answer := responder.Option(cb.Data)
		if answer.Kind == reply.KindUnknownOption {
			metrics.RecordCallback("unknown")
		} else {
			metrics.RecordCallback("known")
		}

		return edit(c, answer)
	}
}

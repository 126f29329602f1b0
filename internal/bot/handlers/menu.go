package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/reply"
)

// NewMenuHandler shows the option picker. In a profile without a menu it does nothing.
func NewMenuHandler(responder *reply.Responder) Handler {
	return func(c telebot.Context) error {
		menu, ok := responder.Menu()
		if !ok {
			return nil
		}
		return send(c, menu)
	}
}

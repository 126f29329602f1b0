package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/reply"
)

// NewHelpHandler lists the commands available in the active profile.
func NewHelpHandler(responder *reply.Responder) Handler {
	return func(c telebot.Context) error {
		return send(c, responder.Help())
	}
}

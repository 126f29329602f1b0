package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/reply"
)

// NewStartHandler greets the sender by a clickable mention.
func NewStartHandler(responder *reply.Responder) Handler {
	return func(c telebot.Context) error {
		return send(c, responder.Start(toSender(c.Sender())))
	}
}

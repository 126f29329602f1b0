package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/reply"
)

// NewTextHandler answers free text with a keyword reply or an echo.
func NewTextHandler(responder *reply.Responder) Handler {
	return func(c telebot.Context) error {
		text := c.Text()
		if text == "" {
			return nil
		}
		return send(c, responder.Text(text))
	}
}

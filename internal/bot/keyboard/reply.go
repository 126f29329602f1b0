package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/reply"
)

// ForceReply asks the client to open a reply box addressed to the bot. Selective limits it to
// the mentioned user in group chats.
func ForceReply() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		ForceReply: true,
		Selective:  true,
	}
}

// FromReply renders button rows as an inline keyboard whose callback data is the bare button ID.
func FromReply(rows [][]reply.Button) (*telebot.ReplyMarkup, error) {
	builder := NewInlineKeyboard()
	for _, row := range rows {
		buttons := make([]InlineButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, InlineButton{Text: btn.Label, Data: btn.ID})
		}
		builder.AddRow(buttons...)
	}

	return builder.Build()
}

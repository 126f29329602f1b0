package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/reply"
)

// Markup picks the reply markup a descriptor asks for: inline keyboard, force-reply, or none.
func Markup(r reply.Reply) (*telebot.ReplyMarkup, error) {
	switch {
	case len(r.Keyboard) > 0:
		return FromReply(r.Keyboard)
	case r.ForceReply:
		return ForceReply(), nil
	default:
		return nil, nil
	}
}

// SendOptions translates a reply descriptor into telebot send options.
func SendOptions(r reply.Reply) (*telebot.SendOptions, error) {
	markup, err := Markup(r)
	if err != nil {
		return nil, err
	}

	opts := &telebot.SendOptions{ReplyMarkup: markup}
	if r.HTML {
		opts.ParseMode = telebot.ModeHTML
	}

	return opts, nil
}

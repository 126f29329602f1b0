// Package testutil provides fakes shared by the bot's handler and middleware tests.
package testutil

import (
	"io"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"
)

// Call records one outbound Send or Edit.
type Call struct {
	What any
	Opts []any
}

// Text returns the payload when it is a plain string.
func (c Call) Text() string {
	s, _ := c.What.(string)
	return s
}

// SendOptions returns the first *telebot.SendOptions among the call options, if any.
func (c Call) SendOptions() *telebot.SendOptions {
	for _, opt := range c.Opts {
		if so, ok := opt.(*telebot.SendOptions); ok {
			return so
		}
	}
	return nil
}

// FakeContext implements the parts of telebot.Context the bot touches. Unimplemented methods
// panic through the nil embedded interface.
type FakeContext struct {
	telebot.Context

	User *telebot.User
	Msg  *telebot.Message
	Cb   *telebot.Callback

	SendErr    error
	EditErr    error
	RespondErr error

	mu        sync.Mutex
	sent      []Call
	edited    []Call
	responses []*telebot.CallbackResponse
	store     map[string]any
}

// DefaultUser is the sender used by the constructors below.
func DefaultUser() *telebot.User {
	return &telebot.User{ID: 42, FirstName: "Ada", LastName: "Lovelace", Username: "ada"}
}

// NewTextContext builds a private-chat text message update.
func NewTextContext(text string) *FakeContext {
	user := DefaultUser()
	return &FakeContext{
		User: user,
		Msg: &telebot.Message{
			ID:     100,
			Sender: user,
			Chat:   &telebot.Chat{ID: user.ID, Type: telebot.ChatPrivate},
			Text:   text,
		},
	}
}

// NewCallbackContext builds a callback query update attached to a bot message.
func NewCallbackContext(data string) *FakeContext {
	user := DefaultUser()
	msg := &telebot.Message{
		ID:   200,
		Chat: &telebot.Chat{ID: user.ID, Type: telebot.ChatPrivate},
		Text: "Choose an option:",
	}
	return &FakeContext{
		User: user,
		Msg:  msg,
		Cb: &telebot.Callback{
			ID:      "cb-1",
			Sender:  user,
			Message: msg,
			Data:    data,
		},
	}
}

func (f *FakeContext) Sender() *telebot.User {
	return f.User
}

func (f *FakeContext) Message() *telebot.Message {
	return f.Msg
}

func (f *FakeContext) Callback() *telebot.Callback {
	return f.Cb
}

func (f *FakeContext) Chat() *telebot.Chat {
	if f.Msg == nil {
		return nil
	}
	return f.Msg.Chat
}

func (f *FakeContext) Text() string {
	if f.Msg == nil {
		return ""
	}
	return f.Msg.Text
}

func (f *FakeContext) Data() string {
	if f.Cb == nil {
		return ""
	}
	return f.Cb.Data
}

func (f *FakeContext) Send(what any, opts ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, Call{What: what, Opts: opts})
	return f.SendErr
}

func (f *FakeContext) Edit(what any, opts ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edited = append(f.edited, Call{What: what, Opts: opts})
	return f.EditErr
}

func (f *FakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(resp) == 0 {
		f.responses = append(f.responses, &telebot.CallbackResponse{})
	} else {
		f.responses = append(f.responses, resp[0])
	}
	return f.RespondErr
}

func (f *FakeContext) Get(key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[key]
}

func (f *FakeContext) Set(key string, val any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store == nil {
		f.store = make(map[string]any)
	}
	f.store[key] = val
}

// Sent returns a copy of the recorded Send calls.
func (f *FakeContext) Sent() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.sent...)
}

// Edited returns a copy of the recorded Edit calls.
func (f *FakeContext) Edited() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.edited...)
}

// Responses returns a copy of the recorded callback answers.
func (f *FakeContext) Responses() []*telebot.CallbackResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*telebot.CallbackResponse(nil), f.responses...)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

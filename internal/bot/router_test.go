package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/bot/handlers"
	"github.com/Proton-105/interactive-bot/internal/errors"
	"github.com/Proton-105/interactive-bot/internal/testutil"
)

func record(calls *[]string, name string) handlers.Handler {
	return func(telebot.Context) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{text: "/start", want: "start", wantOK: true},
		{text: "/START", want: "start", wantOK: true},
		{text: "/menu@my_bot", want: "menu", wantOK: true},
		{text: "/help me please", want: "help", wantOK: true},
		{text: "/", wantOK: false},
		{text: "start", wantOK: false},
		{text: "", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := handlers.ParseCommand(tc.text)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRouter_CallbackLongestPrefix(t *testing.T) {
	var calls []string
	r := NewRouter(testutil.DiscardLogger())
	r.RegisterCallback("", handlers.CallbackHandler(record(&calls, "catch-all")))
	r.RegisterCallback("nav", handlers.CallbackHandler(record(&calls, "nav")))
	r.RegisterCallback("nav:page", handlers.CallbackHandler(record(&calls, "page")))

	for _, data := range []string{"1", "nav:2", "nav:page:3"} {
		require.NoError(t, r.Route(testutil.NewCallbackContext(data)))
	}

	assert.Equal(t, []string{"catch-all", "nav", "page"}, calls)
}

func TestRouter_NoCallbackHandler(t *testing.T) {
	r := NewRouter(testutil.DiscardLogger())
	assert.NoError(t, r.Route(testutil.NewCallbackContext("1")))
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	var calls []string
	r := NewRouter(testutil.DiscardLogger())

	for _, name := range []string{"outer", "inner"} {
		r.Use(func(next handlers.Handler) handlers.Handler {
			return func(c telebot.Context) error {
				calls = append(calls, name)
				return next(c)
			}
		})
	}
	r.SetDefault(record(&calls, "handler"))

	require.NoError(t, r.Route(testutil.NewTextContext("hello")))
	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(testutil.DiscardLogger(), errors.NewHandler(testutil.DiscardLogger(), false))(
		func(telebot.Context) error { panic("boom") },
	)

	c := testutil.NewTextContext("x")
	require.NoError(t, handler(c))

	require.Len(t, c.Sent(), 1)
	assert.Equal(t, "⚠️ Something went wrong. Please try again later.", c.Sent()[0].Text())
}

func TestLoggingMiddleware_SetsCorrelationID(t *testing.T) {
	var seen string
	handler := LoggingMiddleware(testutil.DiscardLogger())(func(c telebot.Context) error {
		seen, _ = c.Get(correlationKey).(string)
		return nil
	})

	require.NoError(t, handler(testutil.NewTextContext("x")))
	assert.NotEmpty(t, seen)
}

package handlers_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/interactive-bot/internal/errors"
	"github.com/Proton-105/interactive-bot/internal/reply"
	"github.com/Proton-105/interactive-bot/internal/testutil"
)

func rich() *reply.Responder {
	return reply.NewResponder(reply.ProfileRich, reply.WithPicker(func(int) int { return 2 }))
}

func TestStartHandler(t *testing.T) {
	c := testutil.NewTextContext("/start")

	require.NoError(t, handlers.NewStartHandler(rich())(c))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t,
		"Hi <a href=\"tg://user?id=42\">Ada Lovelace</a>! Welcome to the interactive bot.\nUse /menu to see options.",
		sent[0].Text())

	opts := sent[0].SendOptions()
	require.NotNil(t, opts)
	assert.Equal(t, telebot.ModeHTML, opts.ParseMode)
	require.NotNil(t, opts.ReplyMarkup)
	assert.True(t, opts.ReplyMarkup.ForceReply)
	assert.True(t, opts.ReplyMarkup.Selective)
}

func TestStartHandler_SimpleProfile(t *testing.T) {
	c := testutil.NewTextContext("/start")

	require.NoError(t, handlers.NewStartHandler(reply.NewResponder(reply.ProfileSimple))(c))

	opts := c.Sent()[0].SendOptions()
	require.NotNil(t, opts)
	assert.Equal(t, telebot.ModeHTML, opts.ParseMode)
	assert.Nil(t, opts.ReplyMarkup)
}

func TestHelpHandler(t *testing.T) {
	c := testutil.NewTextContext("/help")

	require.NoError(t, handlers.NewHelpHandler(rich())(c))
	require.NoError(t, handlers.NewHelpHandler(rich())(c))

	sent := c.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, sent[0].Text(), sent[1].Text())
	assert.Contains(t, sent[0].Text(), "/menu")
}

func TestMenuHandler(t *testing.T) {
	t.Run("rich", func(t *testing.T) {
		c := testutil.NewTextContext("/menu")
		require.NoError(t, handlers.NewMenuHandler(rich())(c))

		sent := c.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, reply.MenuText, sent[0].Text())

		markup := sent[0].SendOptions().ReplyMarkup
		require.NotNil(t, markup)
		require.Len(t, markup.InlineKeyboard, 3)
		assert.Equal(t, "1", markup.InlineKeyboard[0][0].Data)
		assert.Equal(t, "Option 3", markup.InlineKeyboard[2][0].Text)
	})

	t.Run("simple", func(t *testing.T) {
		c := testutil.NewTextContext("/menu")
		require.NoError(t, handlers.NewMenuHandler(reply.NewResponder(reply.ProfileSimple))(c))
		assert.Empty(t, c.Sent())
	})
}

func TestButtonHandler(t *testing.T) {
	testCases := []struct {
		data string
		want string
	}{
		{data: "1", want: "You selected Option 1: Info A"},
		{data: "2", want: "You selected Option 2: Info B"},
		{data: "3", want: "You selected Option 3: Info C"},
		{data: "4", want: reply.UnknownOptionText},
		{data: "", want: reply.UnknownOptionText},
	}

	for _, tc := range testCases {
		t.Run("data="+tc.data, func(t *testing.T) {
			c := testutil.NewCallbackContext(tc.data)

			require.NoError(t, handlers.NewButtonHandler(rich(), testutil.DiscardLogger())(c))

			assert.Len(t, c.Responses(), 1)
			edited := c.Edited()
			require.Len(t, edited, 1)
			assert.Equal(t, tc.want, edited[0].Text())
			assert.Empty(t, c.Sent())
		})
	}
}

func TestButtonHandler_AckFailureStillEdits(t *testing.T) {
	c := testutil.NewCallbackContext("2")
	c.RespondErr = errors.New("query is too old")

	require.NoError(t, handlers.NewButtonHandler(rich(), testutil.DiscardLogger())(c))

	require.Len(t, c.Edited(), 1)
	assert.Equal(t, "You selected Option 2: Info B", c.Edited()[0].Text())
}

func TestButtonHandler_EditFailure(t *testing.T) {
	c := testutil.NewCallbackContext("1")
	c.EditErr = errors.New("message is not modified")

	err := handlers.NewButtonHandler(rich(), testutil.DiscardLogger())(c)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeExternalAPI, appErr.Code)
	assert.Len(t, c.Responses(), 1)
}

func TestTextHandler(t *testing.T) {
	testCases := []struct {
		name    string
		profile reply.Profile
		text    string
		want    string
	}{
		{name: "greeting", profile: reply.ProfileRich, text: "Halo bot", want: reply.GreetingText},
		{name: "greeting wins over info", profile: reply.ProfileRich, text: "hi, any info?", want: reply.GreetingText},
		{name: "info", profile: reply.ProfileRich, text: "INFO please", want: reply.InfoText},
		{name: "random", profile: reply.ProfileRich, text: "random", want: "🎉 You did it!"},
		{name: "echo lower-cased", profile: reply.ProfileRich, text: "Good Morning", want: "good morning"},
		{name: "echo keeps case", profile: reply.ProfileSimple, text: "Good Morning", want: "Good Morning"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			responder := reply.NewResponder(tc.profile, reply.WithPicker(func(int) int { return 2 }))
			c := testutil.NewTextContext(tc.text)

			require.NoError(t, handlers.NewTextHandler(responder)(c))

			sent := c.Sent()
			require.Len(t, sent, 1)
			assert.Equal(t, tc.want, sent[0].Text())
		})
	}
}

func TestTextHandler_SendFailure(t *testing.T) {
	c := testutil.NewTextContext("hello")
	c.SendErr = errors.New("bot was blocked by the user")

	err := handlers.NewTextHandler(rich())(c)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.Retryable)
}

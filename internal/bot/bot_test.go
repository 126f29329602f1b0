package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/idempotency"
	"github.com/Proton-105/interactive-bot/internal/reply"
	"github.com/Proton-105/interactive-bot/internal/testutil"
	"github.com/Proton-105/interactive-bot/pkg/config"
)

func newTestBot(t *testing.T, profile reply.Profile, deps Dependencies) *Bot {
	t.Helper()

	tb, err := telebot.NewBot(telebot.Settings{Token: "test-token", Offline: true})
	require.NoError(t, err)

	if deps.Responder == nil {
		deps.Responder = reply.NewResponder(profile, reply.WithPicker(func(int) int { return 0 }))
	}

	cfg := config.Config{Bot: config.BotConfig{Profile: string(profile), Mode: "polling"}}
	return newBot(tb, cfg, testutil.DiscardLogger(), deps)
}

func TestSettings(t *testing.T) {
	t.Run("polling", func(t *testing.T) {
		settings := Settings(config.Config{Bot: config.BotConfig{
			Token:          "t",
			Mode:           "polling",
			Timeout:        5 * time.Second,
			AllowedUpdates: []string{"message", "callback_query"},
		}}, nil)

		poller, ok := settings.Poller.(*telebot.LongPoller)
		require.True(t, ok)
		assert.Equal(t, 5*time.Second, poller.Timeout)
		assert.Equal(t, []string{"message", "callback_query"}, poller.AllowedUpdates)
	})

	t.Run("webhook", func(t *testing.T) {
		settings := Settings(config.Config{Bot: config.BotConfig{
			Token:            "t",
			Mode:             "webhook",
			WebhookListen:    ":8443",
			WebhookPublicURL: "https://bot.example.com/hook",
		}}, nil)

		webhook, ok := settings.Poller.(*telebot.Webhook)
		require.True(t, ok)
		assert.Equal(t, ":8443", webhook.Listen)
		require.NotNil(t, webhook.Endpoint)
		assert.Equal(t, "https://bot.example.com/hook", webhook.Endpoint.PublicURL)
		assert.Empty(t, webhook.AllowedUpdates)
	})
}

func TestBot_RichProfileRoutes(t *testing.T) {
	b := newTestBot(t, reply.ProfileRich, Dependencies{})

	testCases := []struct {
		name string
		ctx  *testutil.FakeContext
		want string
	}{
		{name: "start", ctx: testutil.NewTextContext("/start"), want: "Welcome to the interactive bot."},
		{name: "help", ctx: testutil.NewTextContext("/help"), want: "/menu - Show options"},
		{name: "menu with bot suffix", ctx: testutil.NewTextContext("/menu@interactive_bot"), want: reply.MenuText},
		{name: "greeting", ctx: testutil.NewTextContext("Hi there"), want: reply.GreetingText},
		{name: "random", ctx: testutil.NewTextContext("give me RANDOM"), want: reply.RandomPool()[0]},
		{name: "echo", ctx: testutil.NewTextContext("See You"), want: "see you"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, b.Router().Route(tc.ctx))

			sent := tc.ctx.Sent()
			require.Len(t, sent, 1)
			assert.Contains(t, sent[0].Text(), tc.want)
		})
	}
}

func TestBot_UnknownCommandIsIgnored(t *testing.T) {
	b := newTestBot(t, reply.ProfileRich, Dependencies{})

	c := testutil.NewTextContext("/unknown")
	require.NoError(t, b.Router().Route(c))
	assert.Empty(t, c.Sent())
}

func TestBot_ButtonPress(t *testing.T) {
	b := newTestBot(t, reply.ProfileRich, Dependencies{})

	c := testutil.NewCallbackContext("3")
	require.NoError(t, b.Router().Route(c))

	assert.Len(t, c.Responses(), 1)
	require.Len(t, c.Edited(), 1)
	assert.Equal(t, "You selected Option 3: Info C", c.Edited()[0].Text())
}

func TestBot_SimpleProfile(t *testing.T) {
	b := newTestBot(t, reply.ProfileSimple, Dependencies{})

	menu := testutil.NewTextContext("/menu")
	require.NoError(t, b.Router().Route(menu))
	assert.Empty(t, menu.Sent())

	cb := testutil.NewCallbackContext("1")
	require.NoError(t, b.Router().Route(cb))
	assert.Empty(t, cb.Edited())

	echo := testutil.NewTextContext("Keep Case")
	require.NoError(t, b.Router().Route(echo))
	require.Len(t, echo.Sent(), 1)
	assert.Equal(t, "Keep Case", echo.Sent()[0].Text())
}

func TestBot_DuplicateUpdateAnsweredOnce(t *testing.T) {
	manager := idempotency.NewManager(idempotency.NewMemoryStore(), testutil.DiscardLogger())
	b := newTestBot(t, reply.ProfileRich, Dependencies{Idempotency: manager})

	c := testutil.NewTextContext("info")
	require.NoError(t, b.Router().Route(c))
	require.NoError(t, b.Router().Route(c))

	assert.Len(t, c.Sent(), 1)
}

func TestBot_DeliveryFailureNotifiesUser(t *testing.T) {
	b := newTestBot(t, reply.ProfileRich, Dependencies{})

	c := testutil.NewCallbackContext("1")
	c.EditErr = errors.New("message to edit not found")

	require.NoError(t, b.Router().Route(c))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "The service is temporarily unavailable.", sent[0].Text())
}

func TestBot_FailedDeliveryIsRetriedOnRedelivery(t *testing.T) {
	manager := idempotency.NewManager(idempotency.NewMemoryStore(), testutil.DiscardLogger())
	b := newTestBot(t, reply.ProfileRich, Dependencies{Idempotency: manager})

	c := testutil.NewCallbackContext("2")
	c.EditErr = errors.New("Bad Gateway")
	require.NoError(t, b.Router().Route(c))
	require.Len(t, c.Sent(), 1)

	c.EditErr = nil
	require.NoError(t, b.Router().Route(c))
	require.NoError(t, b.Router().Route(c))

	edited := c.Edited()
	require.Len(t, edited, 2)
	assert.Equal(t, "You selected Option 2: Info B", edited[1].Text())
}

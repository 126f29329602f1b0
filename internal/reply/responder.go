package reply

import (
	"math/rand/v2"
	"strings"
)

const (
	GreetingText      = "Hai juga! Apa kabar?"
	InfoText          = "Ini info terbaru dari bot interaktif!"
	UnknownOptionText = "Unknown option"
	MenuText          = "Choose an option:"
)

var (
	greetingTriggers = []string{"halo", "hi"}
	infoTrigger      = "info"
	randomTrigger    = "random"

	randomPool = []string{
		"😎 Keep going!",
		"💡 Fun fact: Python itu keren!",
		"🎉 You did it!",
	}

	menuButtons = []Button{
		{Label: "Option 1", ID: "1"},
		{Label: "Option 2", ID: "2"},
		{Label: "Option 3", ID: "3"},
	}

	optionTexts = map[string]string{
		"1": "You selected Option 1: Info A",
		"2": "You selected Option 2: Info B",
		"3": "You selected Option 3: Info C",
	}
)

// Picker returns an index in [0, n).
type Picker func(n int) int

// Option customises a Responder.
type Option func(*Responder)

// WithPicker overrides the random index source.
func WithPicker(p Picker) Option {
	return func(r *Responder) {
		if p != nil {
			r.pick = p
		}
	}
}

// Responder maps updates to replies for a given profile.
type Responder struct {
	profile Profile
	pick    Picker
}

// NewResponder builds a Responder. Unknown profiles fall back to ProfileRich.
func NewResponder(profile Profile, opts ...Option) *Responder {
	if !profile.Valid() {
		profile = ProfileRich
	}

	r := &Responder{
		profile: profile,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Profile returns the active profile.
func (r *Responder) Profile() Profile {
	return r.profile
}

// HasMenu reports whether the menu and its buttons are enabled.
func (r *Responder) HasMenu() bool {
	return r.profile == ProfileRich
}

// Start builds the welcome message.
func (r *Responder) Start(sender Sender) Reply {
	if r.profile == ProfileSimple {
		return Reply{
			Text: "Hi " + sender.MentionHTML() + "! Welcome to the bot.\nUse /help to see what I can do.",
			Kind: KindStart,
			HTML: true,
		}
	}

	return Reply{
		Text:       "Hi " + sender.MentionHTML() + "! Welcome to the interactive bot.\nUse /menu to see options.",
		Kind:       KindStart,
		HTML:       true,
		ForceReply: true,
	}
}

// Help lists the available commands.
func (r *Responder) Help() Reply {
	lines := []string{
		"Help:",
		"/start - Welcome",
		"/help - Show this help",
	}
	if r.HasMenu() {
		lines = append(lines, "/menu - Show options")
	}

	return Reply{Text: strings.Join(lines, "\n"), Kind: KindHelp}
}

// Menu builds the option picker. ok is false when the profile has no menu.
func (r *Responder) Menu() (rep Reply, ok bool) {
	if !r.HasMenu() {
		return Reply{}, false
	}

	rows := make([][]Button, 0, len(menuButtons))
	for _, btn := range menuButtons {
		rows = append(rows, []Button{btn})
	}

	return Reply{Text: MenuText, Kind: KindMenu, Keyboard: rows}, true
}

// Option maps a pressed button identifier to its description.
func (r *Responder) Option(id string) Reply {
	text, ok := optionTexts[id]
	if !ok {
		return Reply{Text: UnknownOptionText, Kind: KindUnknownOption}
	}

	return Reply{Text: text, Kind: KindOption}
}

// Text answers free text. Triggers are matched against the lower-cased text in fixed priority
// order and the first match wins.
func (r *Responder) Text(text string) Reply {
	lowered := strings.ToLower(text)

	switch {
	case containsAny(lowered, greetingTriggers):
		return Reply{Text: GreetingText, Kind: KindGreeting}
	case strings.Contains(lowered, infoTrigger):
		return Reply{Text: InfoText, Kind: KindInfo}
	case strings.Contains(lowered, randomTrigger):
		return Reply{Text: randomPool[r.pickIndex(len(randomPool))], Kind: KindRandom}
	}

	if r.profile == ProfileSimple {
		return Reply{Text: text, Kind: KindEcho}
	}

	return Reply{Text: lowered, Kind: KindEcho}
}

// RandomPool returns a copy of the random reply pool.
func RandomPool() []string {
	return append([]string(nil), randomPool...)
}

// Options returns a copy of the button identifier to description table.
func Options() map[string]string {
	out := make(map[string]string, len(optionTexts))
	for id, text := range optionTexts {
		out[id] = text
	}
	return out
}

func (r *Responder) pickIndex(n int) int {
	idx := r.pick(n)
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// Package reply computes the bot's answers. Everything here is pure: no I/O, no shared mutable
// state, so a Responder can serve any number of concurrent updates.
package reply

import (
	"fmt"
	"html"
	"strings"
)

// Profile selects the feature set exposed by the bot.
type Profile string

const (
	// ProfileRich is the canonical feature set: menu, buttons, force-reply and lower-cased echo.
	ProfileRich Profile = "rich"
	// ProfileSimple drops the menu and buttons and echoes text with its original case.
	ProfileSimple Profile = "simple"
)

// Valid reports whether p names a known profile.
func (p Profile) Valid() bool {
	return p == ProfileRich || p == ProfileSimple
}

// Kind labels the branch that produced a reply.
type Kind string

const (
	KindStart         Kind = "start"
	KindHelp          Kind = "help"
	KindMenu          Kind = "menu"
	KindOption        Kind = "option"
	KindUnknownOption Kind = "unknown_option"
	KindGreeting      Kind = "greeting"
	KindInfo          Kind = "info"
	KindRandom        Kind = "random"
	KindEcho          Kind = "echo"
)

// Sender is the subset of the update author needed to personalise replies.
type Sender struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// DisplayName returns the full name, falling back to the username.
func (s Sender) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
	if name != "" {
		return name
	}
	if s.Username != "" {
		return s.Username
	}
	return fmt.Sprintf("user %d", s.ID)
}

// MentionHTML renders an HTML link that mentions the sender.
func (s Sender) MentionHTML() string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, s.ID, html.EscapeString(s.DisplayName()))
}

// Button is an inline button descriptor; ID is returned verbatim when the button is pressed.
type Button struct {
	Label string
	ID    string
}

// Reply describes one outbound message.
type Reply struct {
	Text       string
	Kind       Kind
	HTML       bool
	ForceReply bool
	Keyboard   [][]Button
}

package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly commands are wrapped with the admin check and never published.
	AdminOnly bool
	Hidden    bool
	// Aliases are plain words that trigger the command when typed as a whole message.
	Aliases []string
}

// Published reports whether the command belongs in the Telegram command menu.
func (c Command) Published() bool {
	return !c.Hidden && !c.AdminOnly && c.Description != ""
}

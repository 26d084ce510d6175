// Package state keeps per-chat conversation values in memory.
// It is domain-agnostic: the stored type is chosen by the bot.
package state

// Package store holds the per-server state the bot keeps between commands:
// censored words and prefixes (persisted to JSON files) and member warnings.
package store

import (
	"context"
	"time"
)

// DefaultReason is recorded when a warning is issued without a reason
const DefaultReason = "No reason provided"

// ServerConfig is the configuration kept for a single guild
type ServerConfig struct {
	CensoredWords []string
	Prefixes      []string
}

// ConfigStore gives access to per-guild configuration.
// Mutators report whether the set actually changed.
type ConfigStore interface {
	Get(guildID string) ServerConfig

	CensoredWords(guildID string) []string
	AddCensoredWord(guildID, word string) bool
	RemoveCensoredWord(guildID, word string) bool

	Prefixes(guildID string) []string
	AddPrefix(guildID, prefix string) bool
	RemovePrefix(guildID, prefix string) bool
	ClearPrefixes(guildID string)
}

// Warning is a single moderator warning issued to a member
type Warning struct {
	ID          string    `json:"id"`
	Reason      string    `json:"reason"`
	ModeratorID string    `json:"moderatorId"`
	Timestamp   time.Time `json:"timestamp"`
}

// WarningStore keeps warnings per (guild, member), in issue order
type WarningStore interface {
	AddWarning(ctx context.Context, guildID, userID, reason, moderatorID string) (Warning, error)
	Warnings(ctx context.Context, guildID, userID string) ([]Warning, error)
	ClearWarnings(ctx context.Context, guildID, userID string) (bool, error)
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func removeString(list []string, value string) ([]string, bool) {
	for i, v := range list {
		if v == value {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}

func cloneStrings(list []string) []string {
	if len(list) == 0 {
		return []string{}
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// FormatDiscordTimestamp formats a time as a Discord timestamp
// style: "R" for relative, "F" for full date/time, "f" for short date/time, "D" for date, "T" for time
func FormatDiscordTimestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// UserMention renders <@id>
func UserMention(id int64) string {
	return "<@" + strconv.FormatInt(id, 10) + ">"
}

// RoleMention renders <@&id>
func RoleMention(id int64) string {
	return "<@&" + strconv.FormatInt(id, 10) + ">"
}

// ChannelMention renders <#id>
func ChannelMention(id int64) string {
	return "<#" + strconv.FormatInt(id, 10) + ">"
}

// OptionalChannel renders a channel mention or "Not set"
func OptionalChannel(id *int64) string {
	if id == nil {
		return "Not set"
	}
	return ChannelMention(*id)
}

// OptionalRole renders a role mention or "Not set"
func OptionalRole(id *int64) string {
	if id == nil {
		return "Not set"
	}
	return RoleMention(*id)
}

// MessageLink builds a jump link to a message
func MessageLink(guildID, channelID, messageID int64) string {
	return fmt.Sprintf("https://discord.com/channels/%d/%d/%d", guildID, channelID, messageID)
}

// FormatID renders a snowflake for API calls
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID parses a snowflake string
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse id %q: %w", s, err)
	}
	return id, nil
}

// FormatCount renders 1234 as "1,234"
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// Plural picks the singular or plural noun for n
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%s %s", FormatCount(n), singular)
	}
	return fmt.Sprintf("%s %s", FormatCount(n), plural)
}

// Truncate shortens s to max runes, ending with an ellipsis when cut
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// FormatReason renders an empty reason as "No reason provided"
func FormatReason(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return "No reason provided"
	}
	return reason
}

package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "ééé…", Truncate("éééééé", 4))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 case", Plural(1, "case", "cases"))
	assert.Equal(t, "0 cases", Plural(0, "case", "cases"))
	assert.Equal(t, "1,500 members", Plural(1500, "member", "members"))
}

func TestMentions(t *testing.T) {
	assert.Equal(t, "<@42>", UserMention(42))
	assert.Equal(t, "<@&42>", RoleMention(42))
	assert.Equal(t, "<#42>", ChannelMention(42))

	id := int64(7)
	assert.Equal(t, "<#7>", OptionalChannel(&id))
	assert.Equal(t, "Not set", OptionalChannel(nil))
	assert.Equal(t, "Not set", OptionalRole(nil))
}

func TestFormatReason(t *testing.T) {
	assert.Equal(t, "No reason provided", FormatReason("  "))
	assert.Equal(t, "spam", FormatReason("spam"))
}

func TestMessageLink(t *testing.T) {
	assert.Equal(t, "https://discord.com/channels/1/2/3", MessageLink(1, 2, 3))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
}

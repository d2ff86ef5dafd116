package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "#ff0000", want: 0xFF0000},
		{input: "00ff00", want: 0x00FF00},
		{input: " #5865F2 ", want: 0x5865F2},
		{input: "#fff", wantErr: true},
		{input: "zzzzzz", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "#5865f2", FormatHexColor(0x5865F2))
}

func TestParseCustomEmoji(t *testing.T) {
	t.Parallel()

	e, err := ParseCustomEmoji("<a:party_blob:123456789012345678>")
	require.NoError(t, err)
	assert.Equal(t, "party_blob", e.Name)
	assert.Equal(t, int64(123456789012345678), e.ID)
	assert.True(t, e.Animated)
	assert.Equal(t, "https://cdn.discordapp.com/emojis/123456789012345678.gif", e.CDNURL())
	assert.Equal(t, "party_blob:123456789012345678", e.APIName())

	e, err = ParseCustomEmoji("<:ok:123456789012345678>")
	require.NoError(t, err)
	assert.False(t, e.Animated)
	assert.Equal(t, "https://cdn.discordapp.com/emojis/123456789012345678.png", EmojiCDNURL(e.ID, e.Animated))

	_, err = ParseCustomEmoji("👍")
	assert.ErrorIs(t, err, ErrNotCustomEmoji)

	assert.Equal(t, "👍", NormalizeReactionEmoji("👍"))
	assert.Equal(t, "ok:123456789012345678", NormalizeReactionEmoji("<:ok:123456789012345678>"))
}

func TestValidEmojiName(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidEmojiName("pog_champ"))
	assert.False(t, ValidEmojiName("a"))
	assert.False(t, ValidEmojiName("has space"))
}

func TestParseMessageLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *MessageLink
		wantErr bool
	}{
		{
			name:  "guild message",
			input: "https://discord.com/channels/1/2/3",
			want:  &MessageLink{GuildID: 1, ChannelID: 2, MessageID: 3},
		},
		{
			name:  "canary and discordapp",
			input: "https://canary.discordapp.com/channels/10/20/30",
			want:  &MessageLink{GuildID: 10, ChannelID: 20, MessageID: 30},
		},
		{
			name:  "direct message",
			input: "https://discord.com/channels/@me/20/30",
			want:  &MessageLink{ChannelID: 20, MessageID: 30},
		},
		{
			name:    "not a link",
			input:   "hello",
			wantErr: true,
		},
		{
			name:    "channel link without message",
			input:   "https://discord.com/channels/1/2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMessageLink(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessageLink)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

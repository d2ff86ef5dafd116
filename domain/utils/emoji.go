package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrNotCustomEmoji is returned when the input is not a custom emoji mention
var ErrNotCustomEmoji = errors.New("not a custom emoji")

var (
	customEmojiPattern = regexp.MustCompile(`^<(a?):([A-Za-z0-9_]{2,32}):(\d{15,21})>$`)
	emojiNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_]{2,32}$`)
)

// CustomEmoji is a parsed <:name:id> or <a:name:id> mention
type CustomEmoji struct {
	Name     string
	ID       int64
	Animated bool
}

// ParseCustomEmoji parses a custom emoji mention
func ParseCustomEmoji(s string) (*CustomEmoji, error) {
	m := customEmojiPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrNotCustomEmoji
	}

	id, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCustomEmoji, err)
	}

	return &CustomEmoji{
		Name:     m[2],
		ID:       id,
		Animated: m[1] == "a",
	}, nil
}

// APIName returns the "name:id" form used by reaction endpoints
func (e *CustomEmoji) APIName() string {
	return e.Name + ":" + strconv.FormatInt(e.ID, 10)
}

// CDNURL returns the image address of the emoji
func (e *CustomEmoji) CDNURL() string {
	return EmojiCDNURL(e.ID, e.Animated)
}

// EmojiCDNURL builds the CDN address for a custom emoji
func EmojiCDNURL(id int64, animated bool) string {
	ext := "png"
	if animated {
		ext = "gif"
	}
	return fmt.Sprintf("https://cdn.discordapp.com/emojis/%d.%s", id, ext)
}

// ValidEmojiName reports whether name is accepted as an emoji name
func ValidEmojiName(name string) bool {
	return emojiNamePattern.MatchString(name)
}

// NormalizeReactionEmoji returns the key stored for reaction bindings:
// "name:id" for custom emojis, the input unchanged otherwise
func NormalizeReactionEmoji(s string) string {
	if e, err := ParseCustomEmoji(s); err == nil {
		return e.APIName()
	}
	return s
}

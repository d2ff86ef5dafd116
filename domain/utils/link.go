package utils

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrInvalidMessageLink is returned for anything that is not a message link
var ErrInvalidMessageLink = errors.New("invalid message link")

var messageLinkPattern = regexp.MustCompile(`^https?://(?:(?:ptb|canary)\.)?discord(?:app)?\.com/channels/(\d+|@me)/(\d+)/(\d+)/?$`)

// MessageLink identifies a message by guild, channel and message id.
// GuildID is zero for direct messages.
type MessageLink struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}

// ParseMessageLink parses https://discord.com/channels/<guild>/<channel>/<message>
func ParseMessageLink(s string) (*MessageLink, error) {
	m := messageLinkPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrInvalidMessageLink
	}

	link := &MessageLink{}
	if m[1] != "@me" {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, ErrInvalidMessageLink
		}
		link.GuildID = id
	}

	var err error
	if link.ChannelID, err = strconv.ParseInt(m[2], 10, 64); err != nil {
		return nil, ErrInvalidMessageLink
	}
	if link.MessageID, err = strconv.ParseInt(m[3], 10, 64); err != nil {
		return nil, ErrInvalidMessageLink
	}
	return link, nil
}

package music

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPosition = errors.New("no track at that position")
	ErrInvalidVolume   = errors.New("volume must be between 0 and 100")
	ErrInvalidLoopMode = errors.New("loop mode must be off, track or queue")
	ErrNothingPlaying  = errors.New("nothing is playing")
	ErrPlayerClosed    = errors.New("player has been stopped")
	ErrNotSeekable     = errors.New("streams cannot be seeked")
	ErrSeekOutOfRange  = errors.New("position is outside the track")
	ErrAlreadyPaused   = errors.New("player is already paused")
	ErrNotPaused       = errors.New("player is not paused")
	ErrNoResults       = errors.New("no results found")
)

// Track is a playable item resolved by the audio backend
type Track struct {
	Encoded     string
	Identifier  string
	Title       string
	Author      string
	URI         string
	ArtworkURL  string
	SourceName  string
	Length      time.Duration
	IsStream    bool
	RequesterID int64
}

// Same reports whether both values refer to the same backend track
func (t Track) Same(other Track) bool {
	if t.Identifier != "" && other.Identifier != "" {
		return t.Identifier == other.Identifier && t.SourceName == other.SourceName
	}
	return t.Encoded == other.Encoded
}

// Display returns "Title by Author", linked when a URI is known
func (t Track) Display() string {
	label := t.Title
	if t.Author != "" {
		label = fmt.Sprintf("%s by %s", t.Title, t.Author)
	}
	if t.URI == "" {
		return label
	}
	return fmt.Sprintf("[%s](%s)", escapeBrackets(label), t.URI)
}

func escapeBrackets(s string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(s)
}

// LoopMode controls what happens when a track ends
type LoopMode string

const (
	LoopOff   LoopMode = "off"
	LoopTrack LoopMode = "track"
	LoopQueue LoopMode = "queue"
)

// ParseLoopMode parses a loop mode, ignoring case
func ParseLoopMode(s string) (LoopMode, error) {
	switch LoopMode(strings.ToLower(strings.TrimSpace(s))) {
	case LoopOff:
		return LoopOff, nil
	case LoopTrack:
		return LoopTrack, nil
	case LoopQueue:
		return LoopQueue, nil
	}
	return "", ErrInvalidLoopMode
}

// EndReason mirrors the reasons an audio node reports for a finished track
type EndReason string

const (
	EndFinished   EndReason = "finished"
	EndLoadFailed EndReason = "loadFailed"
	EndStopped    EndReason = "stopped"
	EndReplaced   EndReason = "replaced"
	EndCleanup    EndReason = "cleanup"
)

// MayStartNext reports whether the queue should advance after this reason
func (r EndReason) MayStartNext() bool {
	return r == EndFinished || r == EndLoadFailed
}

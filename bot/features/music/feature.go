package music

import (
	"context"
	"strings"
	"time"

	"warden/bot/common"
	audio "warden/domain/music"
	"warden/infrastructure/lavalink"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	componentPrefix = "music_"
	announceTimeout = 10 * time.Second
)

// Node is the voice node the feature plays through
type Node interface {
	audio.Backend
	audio.Recommender
	Search(ctx context.Context, query string) (*lavalink.SearchResult, error)
	JoinVoice(guildID, channelID int64) error
	OnVoiceStateUpdate(ctx context.Context, guildID int64, channelID string, sessionID string)
	OnVoiceServerUpdate(ctx context.Context, guildID int64, token, endpoint string)
}

// Feature handles the music commands and the now playing controls
type Feature struct {
	session *discordgo.Session
	node    Node
	players *audio.Manager
}

// NewFeature creates the music feature and its player manager
func NewFeature(session *discordgo.Session, node Node, opts audio.Options) *Feature {
	f := &Feature{
		session: session,
		node:    node,
	}
	opts.OnTrackStart = func(guildID int64, track audio.Track) {
		// Called with the player locked
		go f.announce(guildID, track)
	}
	opts.OnTeardown = func(guildID int64) {
		log.WithField("guild_id", guildID).Info("Music player stopped")
	}
	f.players = audio.NewManager(node, node, opts)
	return f
}

// Players returns the player manager so node events can be routed to it
func (f *Feature) Players() *audio.Manager {
	return f.players
}

// StopAll tears down every player
func (f *Feature) StopAll(ctx context.Context) {
	f.players.StopAll(ctx)
}

// IsComponent reports whether a custom id belongs to the music controls
func IsComponent(customID string) bool {
	return strings.HasPrefix(customID, componentPrefix)
}

// HandleCommand routes the music commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	opts := common.NewOptions(data.Options)

	switch data.Name {
	case "play":
		f.handlePlay(s, i, opts)
	case "skip":
		f.handleSkip(s, i)
	case "pause":
		f.handlePause(s, i)
	case "resume":
		f.handleResume(s, i)
	case "stop":
		f.handleStop(s, i)
	case "queue":
		f.handleQueue(s, i, opts)
	case "nowplaying":
		f.handleNowPlaying(s, i)
	case "loop":
		f.handleLoop(s, i, opts)
	case "shuffle":
		f.handleShuffle(s, i)
	case "remove":
		f.handleRemove(s, i, opts)
	case "move":
		f.handleMove(s, i, opts)
	case "volume":
		f.handleVolume(s, i, opts)
	case "seek":
		f.handleSeek(s, i, opts)
	case "autoplay":
		f.handleAutoplay(s, i, opts)
	case "clearqueue":
		f.handleClearQueue(s, i)
	default:
		common.RespondWithError(s, i, "Unknown command")
	}
}

// Commands returns the music commands
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	zero, one, hundred := float64(0), float64(1), float64(100)
	position := func(name, desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        name,
			Description: desc,
			Required:    true,
			MinValue:    &one,
		}
	}
	plain := func(name, desc string) *discordgo.ApplicationCommand {
		return &discordgo.ApplicationCommand{Name: name, Description: desc}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a song or playlist",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Search text or a link",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "next",
					Description: "Put it at the front of the queue",
				},
			},
		},
		plain("skip", "Skip the current track"),
		plain("pause", "Pause playback"),
		plain("resume", "Resume playback"),
		plain("stop", "Stop playback, clear the queue and leave"),
		{
			Name:        "queue",
			Description: "Show the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page number",
					MinValue:    &one,
				},
			},
		},
		plain("nowplaying", "Show the current track"),
		{
			Name:        "loop",
			Description: "Set the loop mode",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Loop mode",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Off", Value: string(audio.LoopOff)},
						{Name: "Track", Value: string(audio.LoopTrack)},
						{Name: "Queue", Value: string(audio.LoopQueue)},
					},
				},
			},
		},
		plain("shuffle", "Shuffle the queue"),
		{
			Name:        "remove",
			Description: "Remove a track from the queue",
			Options:     []*discordgo.ApplicationCommandOption{position("position", "Queue position")},
		},
		{
			Name:        "move",
			Description: "Move a track within the queue",
			Options: []*discordgo.ApplicationCommandOption{
				position("from", "Current position"),
				position("to", "New position"),
			},
		},
		{
			Name:        "volume",
			Description: "Set the volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Volume from 0 to 100",
					Required:    true,
					MinValue:    &zero,
					MaxValue:    hundred,
				},
			},
		},
		{
			Name:        "seek",
			Description: "Jump to a position in the current track",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "position",
					Description: "Such as 1:30, 90 or 1m30s",
					Required:    true,
				},
			},
		},
		{
			Name:        "autoplay",
			Description: "Queue related tracks when the queue runs out",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Enable autoplay",
					Required:    true,
				},
			},
		},
		plain("clearqueue", "Remove every queued track"),
	}
}

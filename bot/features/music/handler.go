package music

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"warden/bot/common"
	audio "warden/domain/music"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	searchTimeout  = 30 * time.Second
	commandTimeout = 10 * time.Second
)

var (
	errNotInVoice   = common.NewUserError("Join a voice channel first.", "caller not in voice")
	errWrongChannel = common.NewUserError("You need to be in my voice channel.", "caller in another voice channel")
)

// voiceChannel returns the voice channel the user is connected to, or 0
func voiceChannel(s *discordgo.Session, guildID, userID string) int64 {
	vs, err := s.State.VoiceState(guildID, userID)
	if err != nil || vs.ChannelID == "" {
		return 0
	}
	id, err := common.ParseID(vs.ChannelID)
	if err != nil {
		return 0
	}
	return id
}

// checkSameChannel requires the caller to be in voice, and in the bot's channel when it has one
func checkSameChannel(caller, bot int64) error {
	if caller == 0 {
		return errNotInVoice
	}
	if bot != 0 && caller != bot {
		return errWrongChannel
	}
	return nil
}

// requirePlayer returns the guild's player when the caller shares its voice channel
func (f *Feature) requirePlayer(s *discordgo.Session, i *discordgo.InteractionCreate) (*audio.Player, error) {
	guildID, err := common.GuildID(i)
	if err != nil {
		return nil, err
	}
	p := f.players.Get(guildID)
	if p == nil || p.Closed() {
		return nil, audio.ErrNothingPlaying
	}
	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	}
	if err := checkSameChannel(voiceChannel(s, i.GuildID, userID), p.VoiceChannelID()); err != nil {
		return nil, err
	}
	return p, nil
}

// withPlayer runs fn against the caller's player and replies with its message
func (f *Feature) withPlayer(s *discordgo.Session, i *discordgo.InteractionCreate, fn func(ctx context.Context, p *audio.Player) (string, error)) {
	p, err := f.requirePlayer(s, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	message, err := fn(ctx, p)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, message, false))
}

// handlePlay searches, joins the caller's channel when idle, and queues the result
func (f *Feature) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	userID, err := common.InvokerID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	caller := voiceChannel(s, i.GuildID, i.Member.User.ID)
	if existing := f.players.Get(guildID); existing != nil && !existing.Closed() {
		err = checkSameChannel(caller, existing.VoiceChannelID())
	} else {
		err = checkSameChannel(caller, 0)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	result, err := f.node.Search(ctx, strings.TrimSpace(opts.String("query")))
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	if len(result.Tracks) == 0 {
		common.HandleError(s, i, audio.ErrNoResults, true)
		return
	}
	for idx := range result.Tracks {
		result.Tracks[idx].RequesterID = userID
	}

	p, created := f.players.GetOrCreate(guildID)
	if created {
		textChannelID, _ := common.ParseID(i.ChannelID)
		p.SetChannels(textChannelID, caller)
		if err := f.node.JoinVoice(guildID, caller); err != nil {
			if stopErr := p.Stop(ctx); stopErr != nil {
				log.WithError(stopErr).WithField("guild_id", guildID).Warn("Failed to clean up player after join failure")
			}
			common.HandleError(s, i, err, true)
			return
		}
	}

	var embed *discordgo.MessageEmbed
	if result.PlaylistName != "" {
		position, err := p.EnqueueAll(ctx, result.Tracks)
		if err != nil {
			common.HandleError(s, i, err, true)
			return
		}
		embed = buildPlaylistQueuedEmbed(result.PlaylistName, result.Tracks, position)
	} else {
		track := result.Tracks[0]
		position, err := p.Enqueue(ctx, track, opts.Bool("next", false))
		if err != nil {
			common.HandleError(s, i, err, true)
			return
		}
		embed = buildQueuedEmbed(track, position)
	}
	common.LogResponseError(i, common.FollowUpWithEmbed(s, i, embed, false))
}

func (f *Feature) handleSkip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.withPlayer(s, i, func(ctx context.Context, p *audio.Player) (string, error) {
		skipped, err := p.Skip(ctx)
		if err != nil {
			return "", err
		}
		return "Skipped " + skipped.Display(), nil
	})
}

func (f *Feature) handlePause(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.withPlayer(s, i, func(ctx context.Context, p *audio.Player) (string, error) {
		return "Paused.", p.Pause(ctx)
	})
}

func (f *Feature) handleResume(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.withPlayer(s, i, func(ctx context.Context, p *audio.Player) (string, error) {
		return "Resumed.", p.Resume(ctx)
	})
}

func (f *Feature) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.withPlayer(s, i, func(ctx context.Context, p *audio.Player) (string, error) {
		return "Stopped playback and left the channel.", p.Stop(ctx)
	})
}

func (f *Feature) handleLoop(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.withPlayer(s, i, func(_ context.Context, p *audio.Player) (string, error) {
		mode, err := audio.ParseLoopMode(opts.String("mode"))
		if err != nil {
			return "", err
		}
		p.SetLoop(mode)
		return fmt.Sprintf("Loop mode set to **%s**.", mode), nil
	})
}

func (f *Feature) handleShuffle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.withPlayer(s, i, func(_ context.Context, p *audio.Player) (string, error) {
		return fmt.Sprintf("Shuffled %s.", common.Plural(p.Shuffle(), "track", "tracks")), nil
	})
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.withPlayer(s, i, func(_ context.Context, p *audio.Player) (string, error) {
		removed, err := p.Remove(int(opts.Int("position", 0)))
		if err != nil {
			return "", err
		}
		return "Removed " + removed.Display(), nil
	})
}

func (f *Feature) handleMove(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.withPlayer(s, i, func(_ context.Context, p *audio.Player) (string, error) {
		to := int(opts.Int("to", 0))
		moved, err := p.Move(int(opts.Int("from", 0)), to)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %s to position %d.", moved.Display(), to), nil
	})
}

func (f *Feature) handleVolume(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.withPlayer(s, i, func(ctx context.Context, p *audio.Player) (string, error) {
		level := int(opts.Int("level", -1))
		if err := p.SetVolume(ctx, level); err != nil {
			return "", err
		}
		return fmt.Sprintf("Volume set to **%d%%**.", level), nil
	})
}

func (f *Feature) handleSeek(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.withPlayer(s, i, func(ctx context.Context, p *audio.Player) (string, error) {
		position, err := parseSeekPosition(opts.String("position"))
		if err != nil {
			return "", err
		}
		if err := p.Seek(ctx, position); err != nil {
			return "", err
		}
		return "Jumped to `" + audio.FormatTrackDuration(position) + "`.", nil
	})
}

func (f *Feature) handleAutoplay(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	f.withPlayer(s, i, func(_ context.Context, p *audio.Player) (string, error) {
		enabled := opts.Bool("enabled", false)
		p.SetAutoplay(enabled)
		if enabled {
			return "Autoplay enabled.", nil
		}
		return "Autoplay disabled.", nil
	})
}

func (f *Feature) handleClearQueue(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.withPlayer(s, i, func(_ context.Context, p *audio.Player) (string, error) {
		return fmt.Sprintf("Cleared %s from the queue.", common.Plural(p.ClearQueue(), "track", "tracks")), nil
	})
}

func (f *Feature) handleQueue(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	p := f.players.Get(guildID)
	if p == nil || p.Closed() {
		common.HandleError(s, i, audio.ErrNothingPlaying, false)
		return
	}
	embed := buildQueueEmbed(p.Snapshot(), int(opts.Int("page", 1)))
	common.LogResponseError(i, common.RespondWithEmbed(s, i, embed, false))
}

func (f *Feature) handleNowPlaying(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.GuildID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	p := f.players.Get(guildID)
	if p == nil || p.Closed() {
		common.HandleError(s, i, audio.ErrNothingPlaying, false)
		return
	}
	snapshot := p.Snapshot()
	if snapshot.Current == nil {
		common.HandleError(s, i, audio.ErrNothingPlaying, false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:          []*discordgo.MessageEmbed{buildNowPlayingEmbed(snapshot)},
			Components:      buildControls(snapshot),
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
	common.LogResponseError(i, err)
}

// announce posts the now playing message in the player's text channel
func (f *Feature) announce(guildID int64, track audio.Track) {
	p := f.players.Get(guildID)
	if p == nil {
		return
	}
	snapshot := p.Snapshot()
	if snapshot.TextChannelID == 0 || snapshot.Current == nil || !snapshot.Current.Same(track) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
	defer cancel()

	_, err := f.session.ChannelMessageSendComplex(common.FormatID(snapshot.TextChannelID), &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{buildNowPlayingEmbed(snapshot)},
		Components:      buildControls(snapshot),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to announce track")
	}
}

// parseSeekPosition accepts h:mm:ss, m:ss, plain seconds or a duration such as 1m30s
func parseSeekPosition(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "0" {
		return 0, nil
	}
	if !strings.Contains(raw, ":") {
		return utils.ParseDuration(raw)
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", utils.ErrInvalidDuration, raw)
	}
	total := 0
	for idx, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || (idx > 0 && n >= 60) {
			return 0, fmt.Errorf("%w: %q", utils.ErrInvalidDuration, raw)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}

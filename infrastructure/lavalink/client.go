package lavalink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"warden/domain/music"
	"warden/infrastructure/observability"

	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNoNode is returned when no Lavalink node is connected
var ErrNoNode = errors.New("no audio node available")

// NodeConfig describes the Lavalink node to connect to
type NodeConfig struct {
	Name     string
	Address  string
	Password string
	Secure   bool
}

// VoiceConnector joins and leaves voice channels on the gateway.
// *discordgo.Session satisfies it.
type VoiceConnector interface {
	ChannelVoiceJoinManual(gID, cID string, mute, deaf bool) error
}

// PlayerRouter finds the player that should receive node events
type PlayerRouter interface {
	Get(guildID int64) *music.Player
}

// SearchResult is what a query resolved to
type SearchResult struct {
	Tracks       []music.Track
	PlaylistName string
}

// Client adapts a Lavalink node to the music player
type Client struct {
	link  disgolink.Client
	voice VoiceConnector

	mu     sync.RWMutex
	router PlayerRouter
}

// NewClient creates the Lavalink client for the bot user
func NewClient(botUserID int64, voice VoiceConnector) *Client {
	c := &Client{voice: voice}
	c.link = disgolink.New(snowflake.ID(botUserID),
		disgolink.WithListenerFunc(c.onTrackStart),
		disgolink.WithListenerFunc(c.onTrackEnd),
		disgolink.WithListenerFunc(c.onTrackException),
		disgolink.WithListenerFunc(c.onTrackStuck),
		disgolink.WithListenerFunc(c.onWebSocketClosed),
	)
	return c
}

// Connect adds the node
func (c *Client) Connect(ctx context.Context, cfg NodeConfig) error {
	if _, err := c.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     cfg.Name,
		Address:  cfg.Address,
		Password: cfg.Password,
		Secure:   cfg.Secure,
	}); err != nil {
		return fmt.Errorf("failed to connect to lavalink node %s: %w", cfg.Name, err)
	}

	log.WithFields(log.Fields{
		"node":    cfg.Name,
		"address": cfg.Address,
	}).Info("Connected to Lavalink node")
	return nil
}

// Bind routes node events to players
func (c *Client) Bind(router PlayerRouter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.router = router
}

// Close disconnects from every node
func (c *Client) Close() {
	c.link.Close()
}

// JoinVoice connects the bot to a voice channel
func (c *Client) JoinVoice(guildID, channelID int64) error {
	if err := c.voice.ChannelVoiceJoinManual(formatID(guildID), formatID(channelID), false, true); err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}
	return nil
}

// OnVoiceStateUpdate forwards the bot's own voice state to the node.
// An empty channelID means the bot left voice.
func (c *Client) OnVoiceStateUpdate(ctx context.Context, guildID int64, channelID string, sessionID string) {
	var channel *snowflake.ID
	if channelID != "" {
		if id, err := snowflake.Parse(channelID); err == nil {
			channel = &id
		}
	}
	c.link.OnVoiceStateUpdate(ctx, snowflake.ID(guildID), channel, sessionID)
}

// OnVoiceServerUpdate forwards the voice server handshake to the node
func (c *Client) OnVoiceServerUpdate(ctx context.Context, guildID int64, token, endpoint string) {
	c.link.OnVoiceServerUpdate(ctx, snowflake.ID(guildID), token, endpoint)
}

// Search resolves a URL directly and searches YouTube for anything else
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	return c.load(ctx, searchIdentifier(query))
}

// Recommend loads related tracks for autoplay
func (c *Client) Recommend(ctx context.Context, seed music.Track, limit int) ([]music.Track, error) {
	result, err := c.load(ctx, recommendationIdentifier(seed))
	if err != nil {
		return nil, err
	}
	tracks := result.Tracks
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (c *Client) load(ctx context.Context, identifier string) (*SearchResult, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, ErrNoNode
	}

	var (
		result  SearchResult
		loadErr error
	)
	node.LoadTracksHandler(ctx, identifier, disgolink.NewResultHandler(
		func(track lavalink.Track) {
			result.Tracks = []music.Track{toTrack(track)}
		},
		func(playlist lavalink.Playlist) {
			result.PlaylistName = playlist.Info.Name
			result.Tracks = toTracks(playlist.Tracks)
		},
		func(tracks []lavalink.Track) {
			result.Tracks = toTracks(tracks)
		},
		func() {
			loadErr = music.ErrNoResults
		},
		func(err error) {
			loadErr = fmt.Errorf("failed to load tracks: %w", err)
		},
	))

	if loadErr != nil {
		return nil, loadErr
	}
	if len(result.Tracks) == 0 {
		return nil, music.ErrNoResults
	}
	return &result, nil
}

// Play implements music.Backend
func (c *Client) Play(ctx context.Context, guildID int64, track music.Track, volume int) error {
	player := c.link.Player(snowflake.ID(guildID))
	if err := player.Update(ctx, lavalink.WithEncodedTrack(track.Encoded), lavalink.WithVolume(volume), lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to start track: %w", err)
	}
	return nil
}

// Stop implements music.Backend
func (c *Client) Stop(ctx context.Context, guildID int64) error {
	player := c.link.ExistingPlayer(snowflake.ID(guildID))
	if player == nil {
		return nil
	}
	return player.Update(ctx, lavalink.WithNullTrack())
}

// SetPaused implements music.Backend
func (c *Client) SetPaused(ctx context.Context, guildID int64, paused bool) error {
	player := c.link.ExistingPlayer(snowflake.ID(guildID))
	if player == nil {
		return music.ErrNothingPlaying
	}
	return player.Update(ctx, lavalink.WithPaused(paused))
}

// Seek implements music.Backend
func (c *Client) Seek(ctx context.Context, guildID int64, position time.Duration) error {
	player := c.link.ExistingPlayer(snowflake.ID(guildID))
	if player == nil {
		return music.ErrNothingPlaying
	}
	return player.Update(ctx, lavalink.WithPosition(lavalink.Duration(position.Milliseconds())))
}

// SetVolume implements music.Backend; the volume is applied on the next track when nothing plays
func (c *Client) SetVolume(ctx context.Context, guildID int64, volume int) error {
	player := c.link.ExistingPlayer(snowflake.ID(guildID))
	if player == nil {
		return nil
	}
	return player.Update(ctx, lavalink.WithVolume(volume))
}

// Position implements music.Backend
func (c *Client) Position(guildID int64) time.Duration {
	player := c.link.ExistingPlayer(snowflake.ID(guildID))
	if player == nil {
		return 0
	}
	return fromDuration(player.Position())
}

// Disconnect implements music.Backend by destroying the node player and leaving voice
func (c *Client) Disconnect(ctx context.Context, guildID int64) error {
	var errs []error
	if player := c.link.ExistingPlayer(snowflake.ID(guildID)); player != nil {
		if err := player.Destroy(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to destroy player: %w", err))
		}
	}
	if err := c.voice.ChannelVoiceJoinManual(formatID(guildID), "", false, false); err != nil {
		errs = append(errs, fmt.Errorf("failed to leave voice: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Client) playerFor(guildID snowflake.ID) *music.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.router == nil {
		return nil
	}
	return c.router.Get(int64(guildID))
}

func (c *Client) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	log.WithFields(log.Fields{
		"guild_id": player.GuildID(),
		"track":    event.Track.Info.Title,
	}).Debug("Track started")
	observability.GetMetrics().RecordTrackStarted()
}

func (c *Client) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	p := c.playerFor(player.GuildID())
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p.OnTrackEnd(ctx, toTrack(event.Track), music.EndReason(event.Reason))
}

func (c *Client) onTrackException(player disgolink.Player, event lavalink.TrackExceptionEvent) {
	log.WithFields(log.Fields{
		"guild_id": player.GuildID(),
		"track":    event.Track.Info.Title,
		"error":    event.Exception.Message,
		"severity": event.Exception.Severity,
	}).Warn("Track playback failed")
}

func (c *Client) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	log.WithFields(log.Fields{
		"guild_id": player.GuildID(),
		"track":    event.Track.Info.Title,
	}).Warn("Track stuck, skipping")

	p := c.playerFor(player.GuildID())
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := p.Skip(ctx); err != nil && !errors.Is(err, music.ErrNothingPlaying) {
		log.WithError(err).Warn("Failed to skip stuck track")
	}
}

func (c *Client) onWebSocketClosed(player disgolink.Player, event lavalink.WebSocketClosedEvent) {
	log.WithFields(log.Fields{
		"guild_id": player.GuildID(),
		"code":     event.Code,
		"reason":   event.Reason,
		"remote":   event.ByRemote,
	}).Debug("Voice websocket closed")
}

// searchIdentifier passes URLs through and prefixes plain text with a YouTube search
func searchIdentifier(query string) string {
	query = strings.TrimSpace(query)
	if u, err := url.Parse(query); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return query
	}
	return "ytsearch:" + query
}

// recommendationIdentifier loads the YouTube radio mix for YouTube seeds and searches by author otherwise
func recommendationIdentifier(seed music.Track) string {
	if seed.SourceName == "youtube" && seed.Identifier != "" {
		return fmt.Sprintf("https://www.youtube.com/watch?v=%s&list=RD%s", seed.Identifier, seed.Identifier)
	}
	if seed.Author != "" {
		return "ytsearch:" + seed.Author
	}
	return "ytsearch:" + seed.Title
}

func toTrack(t lavalink.Track) music.Track {
	track := music.Track{
		Encoded:    t.Encoded,
		Identifier: t.Info.Identifier,
		Title:      t.Info.Title,
		Author:     t.Info.Author,
		SourceName: t.Info.SourceName,
		Length:     fromDuration(t.Info.Length),
		IsStream:   t.Info.IsStream,
	}
	if t.Info.URI != nil {
		track.URI = *t.Info.URI
	}
	if t.Info.ArtworkURL != nil {
		track.ArtworkURL = *t.Info.ArtworkURL
	}
	return track
}

func toTracks(tracks []lavalink.Track) []music.Track {
	out := make([]music.Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, toTrack(t))
	}
	return out
}

func fromDuration(d lavalink.Duration) time.Duration {
	return time.Duration(d) * time.Millisecond
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

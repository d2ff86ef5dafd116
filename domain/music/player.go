package music

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Backend drives a guild's audio on the voice node
type Backend interface {
	Play(ctx context.Context, guildID int64, track Track, volume int) error
	Stop(ctx context.Context, guildID int64) error
	SetPaused(ctx context.Context, guildID int64, paused bool) error
	Seek(ctx context.Context, guildID int64, position time.Duration) error
	SetVolume(ctx context.Context, guildID int64, volume int) error
	Position(guildID int64) time.Duration
	Disconnect(ctx context.Context, guildID int64) error
}

// Recommender suggests tracks related to a seed track
type Recommender interface {
	Recommend(ctx context.Context, seed Track, limit int) ([]Track, error)
}

// Timer is the part of *time.Timer the player needs
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// timerCallTimeout bounds backend calls made from timer callbacks
const timerCallTimeout = 15 * time.Second

// Options tune a player
type Options struct {
	DefaultVolume      int
	IdleTimeout        time.Duration
	LeaveTimeout       time.Duration
	AutoplayLead       time.Duration
	MaxRecommendations int

	// OnTrackStart runs with the player locked and must not call back into it
	OnTrackStart func(guildID int64, track Track)
	// OnTeardown runs once after the player stops for good
	OnTeardown func(guildID int64)

	AfterFunc AfterFunc
	Rand      *rand.Rand
}

// DefaultOptions returns the stock timeouts
func DefaultOptions() Options {
	return Options{
		DefaultVolume:      65,
		IdleTimeout:        300 * time.Second,
		LeaveTimeout:       60 * time.Second,
		AutoplayLead:       15 * time.Second,
		MaxRecommendations: 5,
	}
}

// Snapshot is a copy of the player state for rendering
type Snapshot struct {
	GuildID        int64
	TextChannelID  int64
	VoiceChannelID int64
	Current        *Track
	Position       time.Duration
	Paused         bool
	Loop           LoopMode
	Volume         int
	Autoplay       bool
	Queue          []Track
}

// Player is the queue and playback state of one guild
type Player struct {
	mu          sync.Mutex
	guildID     int64
	backend     Backend
	recommender Recommender
	opts        Options
	after       AfterFunc
	rng         *rand.Rand

	queue          *Queue
	current        *Track
	paused         bool
	loop           LoopMode
	volume         int
	autoplay       bool
	textChannelID  int64
	voiceChannelID int64
	closed         bool

	idleTimer     Timer
	idleGen       uint64
	leaveTimer    Timer
	leaveGen      uint64
	autoplayTimer Timer
	autoplayGen   uint64

	teardownOnce sync.Once
}

// NewPlayer creates an idle player
func NewPlayer(guildID int64, backend Backend, recommender Recommender, opts Options) *Player {
	after := opts.AfterFunc
	if after == nil {
		after = realAfterFunc
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Player{
		guildID:     guildID,
		backend:     backend,
		recommender: recommender,
		opts:        opts,
		after:       after,
		rng:         rng,
		queue:       NewQueue(),
		loop:        LoopOff,
		volume:      opts.DefaultVolume,
	}
}

func (p *Player) GuildID() int64 {
	return p.guildID
}

// SetChannels records where the player announces tracks and which voice channel it occupies
func (p *Player) SetChannels(textChannelID, voiceChannelID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.textChannelID = textChannelID
	p.voiceChannelID = voiceChannelID
}

func (p *Player) VoiceChannelID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voiceChannelID
}

func (p *Player) TextChannelID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textChannelID
}

// Closed reports whether the player has been torn down
func (p *Player) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Enqueue starts the track when idle, otherwise queues it.
// It returns the queue position, 0 meaning playback started.
func (p *Player) Enqueue(ctx context.Context, track Track, bump bool) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrPlayerClosed
	}
	if p.current == nil {
		if err := p.startLocked(ctx, track); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if bump {
		p.queue.PushFront(track)
		return 1, nil
	}
	p.queue.Push(track)
	return p.queue.Len(), nil
}

// EnqueueAll adds a playlist, starting the first track when idle.
// It returns the position of the first queued track, 0 meaning playback started.
func (p *Player) EnqueueAll(ctx context.Context, tracks []Track) (int, error) {
	if len(tracks) == 0 {
		return 0, ErrNoResults
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrPlayerClosed
	}

	first := p.queue.Len() + 1
	rest := tracks
	if p.current == nil {
		if err := p.startLocked(ctx, tracks[0]); err != nil {
			return 0, err
		}
		first = 0
		rest = tracks[1:]
	}
	for _, t := range rest {
		p.queue.Push(t)
	}
	return first, nil
}

// Skip ends the current track and starts the next one, ignoring track loop
func (p *Player) Skip(ctx context.Context) (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return Track{}, ErrPlayerClosed
	}
	if p.current == nil {
		return Track{}, ErrNothingPlaying
	}

	skipped := *p.current
	if p.paused {
		if err := p.backend.SetPaused(ctx, p.guildID, false); err != nil {
			return Track{}, fmt.Errorf("failed to unpause: %w", err)
		}
		p.paused = false
	}

	p.cancelAutoplayLocked()
	if p.loop == LoopQueue {
		p.queue.Push(skipped)
	}
	p.playNextLocked(ctx, true)
	return skipped, nil
}

// OnTrackEnd advances the queue when the backend reports a finished track
func (p *Player) OnTrackEnd(ctx context.Context, track Track, reason EndReason) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.current == nil || !p.current.Same(track) {
		return
	}
	if !reason.MayStartNext() {
		return
	}

	p.cancelAutoplayLocked()
	finished := *p.current

	switch p.loop {
	case LoopTrack:
		// A track that failed to load would fail again
		if reason != EndLoadFailed {
			if err := p.startLocked(ctx, finished); err == nil {
				return
			}
		}
	case LoopQueue:
		if reason != EndLoadFailed {
			p.queue.Push(finished)
		}
	}

	p.playNextLocked(ctx, false)
}

// playNextLocked starts the next playable track, or goes idle
func (p *Player) playNextLocked(ctx context.Context, stopWhenEmpty bool) {
	for {
		next, ok := p.queue.Pop()
		if !ok {
			p.current = nil
			p.paused = false
			if stopWhenEmpty {
				if err := p.backend.Stop(ctx, p.guildID); err != nil {
					log.WithFields(log.Fields{
						"guild_id": p.guildID,
						"error":    err,
					}).Warn("Failed to stop playback")
				}
			}
			p.armIdleLocked()
			return
		}

		if err := p.startLocked(ctx, next); err != nil {
			log.WithFields(log.Fields{
				"guild_id": p.guildID,
				"track":    next.Title,
				"error":    err,
			}).Warn("Failed to start queued track, skipping")
			continue
		}
		return
	}
}

func (p *Player) startLocked(ctx context.Context, track Track) error {
	p.stopIdleLocked()
	p.cancelAutoplayLocked()

	if err := p.backend.Play(ctx, p.guildID, track, p.volume); err != nil {
		// Nothing playing means nothing else will ever arm the idle timer
		if p.current == nil {
			p.armIdleLocked()
		}
		return fmt.Errorf("failed to play track: %w", err)
	}

	t := track
	p.current = &t
	p.paused = false
	p.scheduleAutoplayLocked(0)

	if p.opts.OnTrackStart != nil {
		p.opts.OnTrackStart(p.guildID, t)
	}
	return nil
}

func (p *Player) Pause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requirePlayingLocked(); err != nil {
		return err
	}
	if p.paused {
		return ErrAlreadyPaused
	}
	if err := p.backend.SetPaused(ctx, p.guildID, true); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}
	p.paused = true
	// The remaining time stops shrinking while paused
	p.cancelAutoplayLocked()
	return nil
}

func (p *Player) Resume(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requirePlayingLocked(); err != nil {
		return err
	}
	if !p.paused {
		return ErrNotPaused
	}
	if err := p.backend.SetPaused(ctx, p.guildID, false); err != nil {
		return fmt.Errorf("failed to resume: %w", err)
	}
	p.paused = false
	p.scheduleAutoplayLocked(p.backend.Position(p.guildID))
	return nil
}

// SetVolume applies a volume between 0 and 100
func (p *Player) SetVolume(ctx context.Context, volume int) error {
	if volume < 0 || volume > 100 {
		return ErrInvalidVolume
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	if err := p.backend.SetVolume(ctx, p.guildID, volume); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	p.volume = volume
	return nil
}

// Seek jumps within the current track and reschedules autoplay
func (p *Player) Seek(ctx context.Context, position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requirePlayingLocked(); err != nil {
		return err
	}
	if p.current.IsStream {
		return ErrNotSeekable
	}
	if position < 0 || position >= p.current.Length {
		return ErrSeekOutOfRange
	}
	if err := p.backend.Seek(ctx, p.guildID, position); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	p.scheduleAutoplayLocked(position)
	return nil
}

func (p *Player) SetLoop(mode LoopMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = mode
}

// SetAutoplay toggles queueing recommendations near the end of the last track
func (p *Player) SetAutoplay(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.autoplay = enabled
	if !enabled {
		p.cancelAutoplayLocked()
		return
	}
	if p.current != nil && !p.paused {
		p.scheduleAutoplayLocked(p.backend.Position(p.guildID))
	}
}

// Shuffle randomizes the queue and returns its length
func (p *Player) Shuffle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.Shuffle(p.rng)
	return p.queue.Len()
}

func (p *Player) Move(from, to int) (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Move(from, to)
}

func (p *Player) Remove(pos int) (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Remove(pos)
}

// ClearQueue drops every queued track and returns how many were removed
func (p *Player) ClearQueue() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Clear()
}

// Stop tears the player down: the queue is cleared, timers are cancelled and the backend disconnects
func (p *Player) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	err := p.teardownLocked(ctx)
	p.mu.Unlock()

	p.notifyTeardown()
	return err
}

// VoiceMembersChanged arms the leave timer when no humans remain and cancels it otherwise
func (p *Player) VoiceMembersChanged(humans int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if humans > 0 {
		p.stopTimerLocked(&p.leaveTimer)
		p.leaveGen++
		return
	}
	if p.leaveTimer != nil || p.opts.LeaveTimeout <= 0 {
		return
	}

	p.leaveGen++
	gen := p.leaveGen
	p.leaveTimer = p.after(p.opts.LeaveTimeout, func() {
		p.timeoutTeardown("leave", func() bool { return p.leaveGen == gen })
	})
}

// Snapshot copies the player state
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		GuildID:        p.guildID,
		TextChannelID:  p.textChannelID,
		VoiceChannelID: p.voiceChannelID,
		Paused:         p.paused,
		Loop:           p.loop,
		Volume:         p.volume,
		Autoplay:       p.autoplay,
		Queue:          p.queue.Tracks(),
	}
	if p.current != nil {
		current := *p.current
		s.Current = &current
		s.Position = p.backend.Position(p.guildID)
	}
	return s
}

func (p *Player) requirePlayingLocked() error {
	if p.closed {
		return ErrPlayerClosed
	}
	if p.current == nil {
		return ErrNothingPlaying
	}
	return nil
}

func (p *Player) teardownLocked(ctx context.Context) error {
	p.closed = true
	p.queue.Clear()
	p.current = nil
	p.cancelAutoplayLocked()
	p.stopIdleLocked()
	p.stopTimerLocked(&p.leaveTimer)
	p.leaveGen++

	if err := p.backend.Disconnect(ctx, p.guildID); err != nil {
		return fmt.Errorf("failed to disconnect player: %w", err)
	}
	return nil
}

func (p *Player) notifyTeardown() {
	p.teardownOnce.Do(func() {
		if p.opts.OnTeardown != nil {
			p.opts.OnTeardown(p.guildID)
		}
	})
}

// timeoutTeardown stops the player from a timer callback when valid still holds
func (p *Player) timeoutTeardown(reason string, valid func() bool) {
	p.mu.Lock()
	if p.closed || !valid() {
		p.mu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timerCallTimeout)
	defer cancel()

	err := p.teardownLocked(ctx)
	p.mu.Unlock()

	fields := log.Fields{"guild_id": p.guildID, "reason": reason}
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("Player teardown failed")
	} else {
		log.WithFields(fields).Info("Player stopped after timeout")
	}
	p.notifyTeardown()
}

func (p *Player) armIdleLocked() {
	p.stopIdleLocked()
	if p.opts.IdleTimeout <= 0 {
		return
	}
	gen := p.idleGen
	p.idleTimer = p.after(p.opts.IdleTimeout, func() {
		p.timeoutTeardown("idle", func() bool { return p.idleGen == gen && p.current == nil })
	})
}

func (p *Player) stopIdleLocked() {
	p.stopTimerLocked(&p.idleTimer)
	p.idleGen++
}

func (p *Player) scheduleAutoplayLocked(position time.Duration) {
	p.cancelAutoplayLocked()

	if !p.autoplay || p.recommender == nil || p.current == nil || p.current.IsStream || p.paused {
		return
	}
	if p.queue.Len() > 0 {
		return
	}
	remaining := p.current.Length - position
	if remaining <= p.opts.AutoplayLead {
		return
	}

	gen := p.autoplayGen
	seed := *p.current
	p.autoplayTimer = p.after(remaining-p.opts.AutoplayLead, func() {
		p.runAutoplay(gen, seed)
	})
}

func (p *Player) cancelAutoplayLocked() {
	p.stopTimerLocked(&p.autoplayTimer)
	p.autoplayGen++
}

func (p *Player) autoplayValidLocked(gen uint64, seed Track) bool {
	return !p.closed && gen == p.autoplayGen && p.current != nil && p.current.Same(seed)
}

func (p *Player) runAutoplay(gen uint64, seed Track) {
	p.mu.Lock()
	if !p.autoplayValidLocked(gen, seed) || p.queue.Len() > 0 {
		p.mu.Unlock()
		return
	}
	p.autoplayTimer = nil
	recommender := p.recommender
	limit := p.opts.MaxRecommendations
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timerCallTimeout)
	defer cancel()

	// One extra in case the seed comes back among the results
	tracks, err := recommender.Recommend(ctx, seed, limit+1)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": p.guildID,
			"seed":     seed.Title,
			"error":    err,
		}).Warn("Failed to fetch autoplay recommendations")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.autoplayValidLocked(gen, seed) {
		return
	}

	added := 0
	for _, t := range tracks {
		if added >= limit {
			break
		}
		if t.Same(seed) {
			continue
		}
		t.RequesterID = 0
		p.queue.Push(t)
		added++
	}

	log.WithFields(log.Fields{
		"guild_id": p.guildID,
		"seed":     seed.Title,
		"added":    added,
	}).Info("Queued autoplay recommendations")
}

func (p *Player) stopTimerLocked(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

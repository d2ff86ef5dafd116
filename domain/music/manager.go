package music

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Manager owns the player of every guild
type Manager struct {
	mu          sync.Mutex
	players     map[int64]*Player
	backend     Backend
	recommender Recommender
	opts        Options
}

// NewManager creates a manager; opts.OnTeardown is called after a player is removed
func NewManager(backend Backend, recommender Recommender, opts Options) *Manager {
	return &Manager{
		players:     make(map[int64]*Player),
		backend:     backend,
		recommender: recommender,
		opts:        opts,
	}
}

// GetOrCreate returns the guild's player and whether it was just created
func (m *Manager) GetOrCreate(guildID int64) (*Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.players[guildID]; ok && !p.Closed() {
		return p, false
	}

	opts := m.opts
	var player *Player
	opts.OnTeardown = func(guildID int64) {
		m.removeIf(guildID, player)
		if m.opts.OnTeardown != nil {
			m.opts.OnTeardown(guildID)
		}
	}
	player = NewPlayer(guildID, m.backend, m.recommender, opts)
	m.players[guildID] = player
	return player, true
}

// Get returns the guild's player, or nil
func (m *Manager) Get(guildID int64) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[guildID]
}

func (m *Manager) Remove(guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, guildID)
}

func (m *Manager) removeIf(guildID int64, player *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.players[guildID] == player {
		delete(m.players, guildID)
	}
}

// Count returns the number of active players
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}

// StopAll tears down every player
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.Lock()
	players := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	m.mu.Unlock()

	for _, p := range players {
		if err := p.Stop(ctx); err != nil {
			log.WithFields(log.Fields{
				"guild_id": p.GuildID(),
				"error":    err,
			}).Warn("Failed to stop player during shutdown")
		}
	}
}

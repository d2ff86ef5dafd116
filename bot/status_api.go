package bot

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GuildInfo represents basic guild information
type GuildInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

// StatusResponse is served on /status
type StatusResponse struct {
	Guilds           int    `json:"guilds"`
	MusicEnabled     bool   `json:"music_enabled"`
	ActivePlayers    int    `json:"active_players"`
	AutomationCached int    `json:"automation_cached"`
	StartedAt        string `json:"started_at"`
	Uptime           string `json:"uptime"`
}

// StartStatusAPI starts an internal HTTP API reporting bot health
func (b *Bot) StartStatusAPI(port int) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	b.setupStatusRoutes(router)

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	b.statusServer = server

	go func() {
		log.Infof("Status API listening on %s", addr)
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("Status API server error: %v", err)
		}
	}()

	return nil
}

func (b *Bot) setupStatusRoutes(router *gin.Engine) {
	router.GET("/health", b.handleGETHealth)
	router.GET("/status", b.handleGETStatus)
	router.GET("/guilds", b.handleGETGuilds)
}

func (b *Bot) handleGETHealth(c *gin.Context) {
	if b.session.State == nil || b.session.State.User == nil {
		c.String(http.StatusServiceUnavailable, "NOT READY")
		return
	}
	c.String(http.StatusOK, "OK")
}

func (b *Bot) handleGETStatus(c *gin.Context) {
	c.JSON(http.StatusOK, b.Status())
}

func (b *Bot) handleGETGuilds(c *gin.Context) {
	c.JSON(http.StatusOK, b.GetGuilds())
}

// Status summarizes the running bot
func (b *Bot) Status() StatusResponse {
	status := StatusResponse{
		Guilds:           len(b.GetGuilds()),
		MusicEnabled:     b.music != nil,
		AutomationCached: b.automation.Len(),
		StartedAt:        b.startedAt.UTC().Format(time.RFC3339),
		Uptime:           strings.TrimSpace(humanize.RelTime(b.startedAt, time.Now(), "", "")),
	}
	if b.music != nil {
		status.ActivePlayers = b.music.Players().Count()
	}
	return status
}

// GetGuilds returns the guilds in the session state
func (b *Bot) GetGuilds() []GuildInfo {
	guilds := make([]GuildInfo, 0)
	if b.session.State == nil {
		return guilds
	}

	b.session.State.RLock()
	defer b.session.State.RUnlock()
	for _, guild := range b.session.State.Guilds {
		guilds = append(guilds, GuildInfo{
			ID:          guild.ID,
			Name:        guild.Name,
			MemberCount: guild.MemberCount,
		})
	}
	return guilds
}

package welcome

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"warden/application"
	"warden/bot/common"
	"warden/domain/entities"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// Kind selects one of the member messages
type Kind string

const (
	KindWelcome Kind = "welcome"
	KindLeave   Kind = "leave"
	KindBoost   Kind = "boost"
)

// Feature posts welcome, leave and boost messages
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	cards      *CardRenderer
}

// NewFeature creates a new welcome feature
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, httpClient *http.Client) (*Feature, error) {
	cards, err := NewCardRenderer(httpClient)
	if err != nil {
		return nil, err
	}
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		cards:      cards,
	}, nil
}

// OnMemberAdd sends the welcome message
func (f *Feature) OnMemberAdd(ctx context.Context, member *discordgo.Member) {
	f.announce(ctx, KindWelcome, member.GuildID, member.User, member)
}

// OnMemberRemove sends the leave message
func (f *Feature) OnMemberRemove(ctx context.Context, guildID string, user *discordgo.User) {
	f.announce(ctx, KindLeave, guildID, user, nil)
}

// OnBoost sends the boost message
func (f *Feature) OnBoost(ctx context.Context, member *discordgo.Member) {
	f.announce(ctx, KindBoost, member.GuildID, member.User, member)
}

// Preview renders a member message for the given member without sending it
func (f *Feature) Preview(ctx context.Context, settings *entities.GuildSettings, kind Kind, member *discordgo.Member) (*discordgo.MessageSend, error) {
	return f.build(ctx, settings, kind, member.GuildID, member.User, member)
}

func (f *Feature) announce(ctx context.Context, kind Kind, guildID string, user *discordgo.User, member *discordgo.Member) {
	if user == nil {
		return
	}
	gid, err := common.ParseID(guildID)
	if err != nil {
		return
	}

	var settings *entities.GuildSettings
	err = application.RunInUnitOfWork(ctx, f.uowFactory, gid, func(uow application.UnitOfWork) error {
		var getErr error
		settings, getErr = application.NewGuildSettingsService(uow).GetOrCreateSettings(ctx, gid)
		return getErr
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Error("Failed to load settings for member message")
		return
	}

	channelID := channelFor(settings, kind)
	if channelID == nil {
		return
	}

	msg, err := f.build(ctx, settings, kind, guildID, user, member)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Error("Failed to build member message")
		return
	}

	if _, err := f.session.ChannelMessageSendComplex(common.FormatID(*channelID), msg, discordgo.WithContext(ctx)); err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"channel_id": *channelID,
			"kind":       kind,
			"error":      err,
		}).Warn("Failed to send member message")
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  user.ID,
		"kind":     kind,
	}).Debug("Sent member message")
}

// channelFor returns the configured channel for a message kind, or nil
func channelFor(settings *entities.GuildSettings, kind Kind) *int64 {
	switch kind {
	case KindWelcome:
		if settings.HasWelcomeChannel() {
			return settings.WelcomeChannelID
		}
	case KindLeave:
		if settings.HasLeaveChannel() {
			return settings.LeaveChannelID
		}
	case KindBoost:
		if settings.HasBoostChannel() {
			return settings.BoostChannelID
		}
	}
	return nil
}

func templateFor(settings *entities.GuildSettings, kind Kind) string {
	switch kind {
	case KindLeave:
		return settings.LeaveTemplate()
	case KindBoost:
		return settings.BoostTemplate()
	}
	return settings.WelcomeTemplate()
}

func (f *Feature) build(ctx context.Context, settings *entities.GuildSettings, kind Kind, guildID string, user *discordgo.User, member *discordgo.Member) (*discordgo.MessageSend, error) {
	vars := memberVars(f.session, guildID, user, member)
	content := utils.RenderMemberTemplate(templateFor(settings, kind), vars)

	msg := &discordgo.MessageSend{
		Content: common.Truncate(content, common.MaxMessageContent),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{user.ID},
		},
	}

	if kind == KindWelcome && settings.WelcomeCardEnabled {
		png, err := f.cards.Render(ctx, vars.AvatarURL, CardText{
			Title:    "WELCOME",
			Name:     vars.DisplayName,
			Subtitle: fmt.Sprintf("Member #%s", humanize.Comma(int64(vars.MemberCount))),
		})
		if err != nil {
			return nil, err
		}
		msg.Files = []*discordgo.File{{
			Name:        "welcome.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(png),
		}}
	}
	return msg, nil
}

// memberVars collects template values from state
func memberVars(s *discordgo.Session, guildID string, user *discordgo.User, member *discordgo.Member) utils.MemberVars {
	userID, _ := common.ParseID(user.ID)
	gid, _ := common.ParseID(guildID)

	vars := utils.MemberVars{
		UserID:      userID,
		Username:    user.Username,
		DisplayName: common.UserDisplayName(user),
		AvatarURL:   user.AvatarURL("256"),
		GuildID:     gid,
	}
	if member != nil {
		vars.DisplayName = common.GetDisplayName(member)
	}
	if guild, err := s.State.Guild(guildID); err == nil {
		vars.GuildName = guild.Name
		vars.MemberCount = guild.MemberCount
		vars.BoostCount = guild.PremiumSubscriptionCount
	}
	return vars
}

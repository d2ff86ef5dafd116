package jail

import (
	"context"

	"warden/application"
	"warden/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const rejoinReason = "Rejoined while jailed"

// OnMemberAdd re-applies the jail role to a jailed member who left and came back.
// It reports whether the member was jailed so callers can skip autoroles.
func (f *Feature) OnMemberAdd(ctx context.Context, member *discordgo.Member) bool {
	if member == nil || member.User == nil {
		return false
	}
	guildID, err := common.ParseID(member.GuildID)
	if err != nil {
		return false
	}
	userID, err := common.ParseID(member.User.ID)
	if err != nil {
		return false
	}

	var (
		jailed     bool
		jailRoleID *int64
	)
	err = application.RunInUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var checkErr error
		if jailed, checkErr = application.NewModerationService(uow, guildID, f.gateway).IsJailed(ctx, userID); checkErr != nil || !jailed {
			return checkErr
		}
		settings, checkErr := application.NewGuildSettingsService(uow).GetOrCreateSettings(ctx, guildID)
		if checkErr != nil {
			return checkErr
		}
		if settings.HasJail() {
			jailRoleID = settings.JailRoleID
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": guildID,
			"user_id":  userID,
		}).Error("Failed to check jail record on join")
		return false
	}
	if !jailed {
		return false
	}
	if jailRoleID == nil {
		log.WithField("guild_id", guildID).Warn("Jailed member rejoined but jail is no longer configured")
		return true
	}

	if err := f.gateway.SetRoles(ctx, guildID, userID, []int64{*jailRoleID}, rejoinReason); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": guildID,
			"user_id":  userID,
		}).Error("Failed to re-apply jail role")
		return true
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
	}).Info("Re-applied jail role on rejoin")
	return true
}

package lockdown

import (
	"context"
	"fmt"
	"time"

	"warden/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxSlowmode      = 21600
	lockdownLockTTL  = 10 * time.Minute
	channelLockTTL   = 30 * time.Second
	lockdownParallel = 5

	sendPermissions = discordgo.PermissionSendMessages | discordgo.PermissionSendMessagesInThreads
)

// lockedOverwrite adds the send deny to an existing @everyone overwrite
func lockedOverwrite(allow, deny int64) (int64, int64) {
	return allow &^ sendPermissions, deny | sendPermissions
}

// unlockedOverwrite removes the send deny and leaves every other bit alone
func unlockedOverwrite(allow, deny int64) (int64, int64) {
	return allow, deny &^ sendPermissions
}

// everyoneOverwrite returns the @everyone overwrite of a channel, if any
func everyoneOverwrite(channel *discordgo.Channel) (allow, deny int64) {
	for _, o := range channel.PermissionOverwrites {
		if o.ID == channel.GuildID && o.Type == discordgo.PermissionOverwriteTypeRole {
			return o.Allow, o.Deny
		}
	}
	return 0, 0
}

// setLocked rewrites the @everyone overwrite of a channel; it reports false when nothing changed
func setLocked(ctx context.Context, s *discordgo.Session, channel *discordgo.Channel, locked bool, reason string) (bool, error) {
	allow, deny := everyoneOverwrite(channel)
	var newAllow, newDeny int64
	if locked {
		newAllow, newDeny = lockedOverwrite(allow, deny)
	} else {
		newAllow, newDeny = unlockedOverwrite(allow, deny)
	}
	if newAllow == allow && newDeny == deny {
		return false, nil
	}

	opts := []discordgo.RequestOption{discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason)}
	var err error
	if newAllow == 0 && newDeny == 0 {
		err = s.ChannelPermissionDelete(channel.ID, channel.GuildID, opts...)
	} else {
		err = s.ChannelPermissionSet(channel.ID, channel.GuildID, discordgo.PermissionOverwriteTypeRole, newAllow, newDeny, opts...)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update channel %s: %w", channel.ID, err)
	}
	return true, nil
}

func (f *Feature) targetChannel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) (*discordgo.Channel, error) {
	channelID := opts.String("channel")
	if channelID == "" {
		channelID = i.ChannelID
	}
	if channel, err := s.State.Channel(channelID); err == nil {
		return channel, nil
	}
	channel, err := s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}
	return channel, nil
}

func (f *Feature) handleLock(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options, locked bool) {
	if err := common.RequirePermission(i, discordgo.PermissionManageChannels, "Manage Channels"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), channelLockTTL)
	defer cancel()

	channel, err := f.targetChannel(ctx, s, i, opts)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	release, err := f.locker.Acquire(ctx, "lock:"+channel.ID, channelLockTTL)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	defer release()

	reason := common.FormatReason(opts.String("reason"))
	changed, err := setLocked(ctx, s, channel, locked, reason)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var message string
	switch {
	case locked && changed:
		message = fmt.Sprintf("🔒 <#%s> is locked | %s", channel.ID, reason)
	case locked:
		message = fmt.Sprintf("<#%s> is already locked", channel.ID)
	case changed:
		message = fmt.Sprintf("🔓 <#%s> is unlocked", channel.ID)
	default:
		message = fmt.Sprintf("<#%s> is not locked", channel.ID)
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, message, false))
}

// handleLockdown locks or unlocks every text channel, a few at a time
func (f *Feature) handleLockdown(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options, locked bool) {
	if err := common.RequirePermission(i, discordgo.PermissionManageChannels, "Manage Channels"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockdownLockTTL)
	defer cancel()

	release, err := f.locker.Acquire(ctx, "lockdown:"+i.GuildID, lockdownLockTTL)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	defer release()

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	channels, err := s.GuildChannels(i.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		common.HandleError(s, i, fmt.Errorf("failed to list channels: %w", err), true)
		return
	}

	reason := common.FormatReason(opts.String("reason"))
	results := make([]bool, len(channels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lockdownParallel)
	for idx, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews {
			continue
		}
		g.Go(func() error {
			changed, err := setLocked(gctx, s, channel, locked, reason)
			results[idx] = changed
			return err
		})
	}
	if err := g.Wait(); err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	changed := 0
	for _, ok := range results {
		if ok {
			changed++
		}
	}

	log.WithFields(log.Fields{
		"guild_id": i.GuildID,
		"locked":   locked,
		"channels": changed,
	}).Info("Lockdown updated")

	message := fmt.Sprintf("🔓 Lockdown ended. Unlocked %s.", common.Plural(changed, "channel", "channels"))
	if locked {
		message = fmt.Sprintf("🔒 Lockdown started. Locked %s | %s", common.Plural(changed, "channel", "channels"), reason)
	}
	common.LogResponseError(i, common.FollowUpSuccess(s, i, message, false))
}

func (f *Feature) handleSlowmode(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := common.RequirePermission(i, discordgo.PermissionManageChannels, "Manage Channels"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	seconds := int(opts.Int("seconds", 0))
	if seconds < 0 || seconds > maxSlowmode {
		common.HandleError(s, i, common.NewUserError("Slowmode must be between 0 and 21600 seconds.", "slowmode out of range"), false)
		return
	}

	ctx := context.Background()
	channel, err := f.targetChannel(ctx, s, i, opts)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if _, err := s.ChannelEdit(channel.ID, &discordgo.ChannelEdit{RateLimitPerUser: &seconds}, discordgo.WithContext(ctx)); err != nil {
		common.HandleError(s, i, fmt.Errorf("failed to set slowmode: %w", err), false)
		return
	}

	message := fmt.Sprintf("Slowmode disabled in <#%s>", channel.ID)
	if seconds > 0 {
		message = fmt.Sprintf("Slowmode in <#%s> set to %s", channel.ID, common.Plural(seconds, "second", "seconds"))
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, message, false))
}

package purge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warden/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	minPurge     = 1
	maxPurge     = 500
	batchSize    = 100
	maxAge       = 14 * 24 * time.Hour
	maxScanPages = 20
	purgeLockTTL = 5 * time.Minute
)

// messageAPI is the part of the session a purge needs
type messageAPI interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
}

// filter selects the messages a purge deletes
type filter struct {
	userID   string
	botsOnly bool
	contains string
}

func (f filter) matches(m *discordgo.Message) bool {
	if m.Pinned {
		return false
	}
	if f.userID != "" && (m.Author == nil || m.Author.ID != f.userID) {
		return false
	}
	if f.botsOnly && (m.Author == nil || !m.Author.Bot) {
		return false
	}
	if f.contains != "" && !strings.Contains(strings.ToLower(m.Content), strings.ToLower(f.contains)) {
		return false
	}
	return true
}

// selectMessages picks up to limit matching ids from a page, newest first.
// It reports done once a message older than the bulk delete window is seen.
func selectMessages(page []*discordgo.Message, flt filter, limit int, now time.Time) (ids []string, done bool) {
	cutoff := now.Add(-maxAge)
	for _, m := range page {
		if m.Timestamp.Before(cutoff) {
			return ids, true
		}
		if len(ids) >= limit {
			return ids, true
		}
		if flt.matches(m) {
			ids = append(ids, m.ID)
		}
	}
	return ids, len(ids) >= limit
}

// batches splits ids into slices of at most size
func batches(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > 0 {
		n := min(size, len(ids))
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}

func (f *Feature) handlePurge(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if err := common.RequirePermission(i, discordgo.PermissionManageMessages, "Manage Messages"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	amount := int(opts.Int("amount", 0))
	if amount < minPurge || amount > maxPurge {
		common.HandleError(s, i, common.NewUserError("Amount must be between 1 and 500.", "purge amount out of range"), false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), purgeLockTTL)
	defer cancel()

	release, err := f.locker.Acquire(ctx, "purge:"+i.ChannelID, purgeLockTTL)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	defer release()

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	flt := filter{
		userID:   opts.String("user"),
		botsOnly: opts.Bool("bots", false),
		contains: opts.String("contains"),
	}

	ids, err := collect(ctx, s, i.ChannelID, flt, amount, time.Now())
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	deleted, err := deleteMessages(ctx, s, i.ChannelID, ids)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   i.GuildID,
		"channel_id": i.ChannelID,
		"requested":  amount,
		"deleted":    deleted,
	}).Info("Purged messages")

	message := fmt.Sprintf("Deleted %s", common.Plural(deleted, "message", "messages"))
	if deleted < amount {
		message += " (messages older than 14 days cannot be bulk deleted)"
	}
	common.LogResponseError(i, common.FollowUpSuccess(s, i, message, true))
}

// collect pages backwards through the channel until enough messages match
func collect(ctx context.Context, api messageAPI, channelID string, flt filter, amount int, now time.Time) ([]string, error) {
	var (
		ids    []string
		before string
	)
	for page := 0; page < maxScanPages && len(ids) < amount; page++ {
		msgs, err := api.ChannelMessages(channelID, batchSize, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch messages: %w", err)
		}
		if len(msgs) == 0 {
			break
		}

		selected, done := selectMessages(msgs, flt, amount-len(ids), now)
		ids = append(ids, selected...)
		if done || len(msgs) < batchSize {
			break
		}
		before = msgs[len(msgs)-1].ID
	}
	return ids, nil
}

// deleteMessages bulk deletes in batches of 100; a lone message uses a single delete
func deleteMessages(ctx context.Context, api messageAPI, channelID string, ids []string) (int, error) {
	deleted := 0
	for _, batch := range batches(ids, batchSize) {
		var err error
		if len(batch) == 1 {
			err = api.ChannelMessageDelete(channelID, batch[0], discordgo.WithContext(ctx))
		} else {
			err = api.ChannelMessagesBulkDelete(channelID, batch, discordgo.WithContext(ctx))
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to delete messages: %w", err)
		}
		deleted += len(batch)
	}
	return deleted, nil
}

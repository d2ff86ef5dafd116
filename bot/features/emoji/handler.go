package emoji

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"warden/bot/common"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

const (
	maxNameLength   = 32
	maxEmojiBytes   = 256 * 1024
	downloadTimeout = 15 * time.Second
)

var minNameLength = 2

var (
	errInvalidName  = common.NewUserError("Emoji names must be 2-32 letters, numbers or underscores.", "invalid emoji name")
	errTooLarge     = common.NewUserError(fmt.Sprintf("Emojis must be smaller than %s.", humanize.IBytes(maxEmojiBytes)), "emoji image too large")
	errNotAnImage   = common.NewUserError("That link is not a PNG, JPEG, GIF or WebP image.", "emoji link is not an image")
	errDownloadFail = common.NewUserError("I couldn't download that image.", "emoji download failed")
)

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	name := strings.TrimSpace(opts.String("name"))
	if !utils.ValidEmojiName(name) {
		common.HandleError(s, i, errInvalidName, false)
		return
	}
	f.upload(s, i, name, strings.TrimSpace(opts.String("url")))
}

// handleSteal copies a custom emoji by downloading it from the CDN
func (f *Feature) handleSteal(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	source, err := utils.ParseCustomEmoji(strings.TrimSpace(opts.String("emoji")))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	name := source.Name
	if custom := strings.TrimSpace(opts.String("name")); custom != "" {
		name = custom
	}
	if !utils.ValidEmojiName(name) {
		common.HandleError(s, i, errInvalidName, false)
		return
	}
	f.upload(s, i, name, source.CDNURL())
}

func (f *Feature) upload(s *discordgo.Session, i *discordgo.InteractionCreate, name, url string) {
	if _, err := common.GuildID(i); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	image, err := f.download(ctx, url)
	if err != nil {
		log.WithError(err).WithField("url", url).Debug("Emoji download rejected")
		common.HandleError(s, i, err, true)
		return
	}

	emoji, err := s.GuildEmojiCreate(i.GuildID, &discordgo.EmojiParams{
		Name:  name,
		Image: image,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Added by "+common.UserDisplayName(i.Member.User)))
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": i.GuildID,
		"emoji_id": emoji.ID,
		"name":     emoji.Name,
	}).Info("Emoji added")

	common.LogResponseError(i, common.FollowUpSuccess(s, i, fmt.Sprintf("Added %s `:%s:`", emoji.MessageFormat(), emoji.Name), false))
}

// download fetches an image and returns it as the data URI the emoji endpoint expects
func (f *Feature) download(ctx context.Context, url string) (string, error) {
	data, contentType, err := f.fetch(ctx, url, maxEmojiBytes)
	if err != nil {
		return "", err
	}
	return encodeImage(data, contentType)
}

// fetch reads at most limit+1 bytes so callers can tell an oversized file apart
func (f *Feature) fetch(ctx context.Context, url string, limit int64) ([]byte, string, error) {
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil, "", errNotAnImage
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", errNotAnImage
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errDownloadFail, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d", errDownloadFail, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errDownloadFail, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// encodeImage validates size and type and builds a base64 data URI
func encodeImage(data []byte, contentType string) (string, error) {
	if len(data) > maxEmojiBytes {
		return "", errTooLarge
	}
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if !allowedTypes[mediaType] {
		mediaType = http.DetectContentType(data)
	}
	if !allowedTypes[mediaType] {
		return "", errNotAnImage
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	target, err := utils.ParseCustomEmoji(strings.TrimSpace(opts.String("emoji")))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	emojiID := common.FormatID(target.ID)
	err = s.GuildEmojiDelete(i.GuildID, emojiID, discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason("Deleted by "+common.UserDisplayName(i.Member.User)))
	if err != nil {
		if common.IsNotFound(err) {
			common.HandleError(s, i, common.NewUserError("That emoji is not from this server.", "emoji not in guild"), false)
			return
		}
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, fmt.Sprintf("Deleted `:%s:`.", target.Name), false))
}

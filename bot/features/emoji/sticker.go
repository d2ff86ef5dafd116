package emoji

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"warden/bot/common"
	"warden/domain/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

const (
	minStickerName   = 2
	maxStickerName   = 30
	maxStickerBytes  = 512 * 1024
	stickerScanDepth = 25
	stickerTimeout   = 20 * time.Second
	stickerCDN       = "https://media.discordapp.net/stickers/"
)

var (
	errNoStickerNearby = common.NewUserError(fmt.Sprintf("I couldn't find a message with a sticker in the last %d messages.", stickerScanDepth), "no sticker in recent messages")
	errNoSticker       = common.NewUserError("That message doesn't have any stickers.", "message has no sticker")
	errBadMessageRef   = common.NewUserError("Give a message link or a message ID from this channel.", "invalid message reference")
	errStandardSticker = common.NewUserError("Built-in stickers can't be copied.", "standard sticker")
	errStickerIsLocal  = common.NewUserError("That sticker is already in this server.", "sticker already in guild")
	errLottieSticker   = common.NewUserError("Lottie stickers can only be uploaded by Discord partners.", "lottie sticker")
	errStickerName     = common.NewUserError(fmt.Sprintf("Sticker names must be %d-%d characters.", minStickerName, maxStickerName), "invalid sticker name")
	errStickerSlots    = common.NewUserError("This server has no sticker slots left.", "sticker limit reached")
	errStickerNotFound = common.NewUserError("There is no sticker with that name or ID in this server.", "sticker not found")
	errStickerTooLarge = common.NewUserError(fmt.Sprintf("Stickers must be smaller than %s.", humanize.IBytes(maxStickerBytes)), "sticker too large")
)

// stickerSlots is the number of custom stickers a guild may hold at each boost tier
func stickerSlots(tier discordgo.PremiumTier) int {
	switch tier {
	case discordgo.PremiumTier1:
		return 15
	case discordgo.PremiumTier2:
		return 30
	case discordgo.PremiumTier3:
		return 60
	default:
		return 5
	}
}

// firstSticker returns the first sticker in messages, newest first
func firstSticker(messages []*discordgo.Message) *discordgo.StickerItem {
	for _, m := range messages {
		if m != nil && len(m.StickerItems) > 0 {
			return m.StickerItems[0]
		}
	}
	return nil
}

// stickerFile returns the CDN address, file name and media type of a sticker image
func stickerFile(item *discordgo.StickerItem) (url, name, mediaType string, err error) {
	switch item.FormatType {
	case discordgo.StickerFormatTypePNG, discordgo.StickerFormatTypeAPNG:
		return stickerCDN + item.ID + ".png", item.ID + ".png", "image/png", nil
	case discordgo.StickerFormatTypeGIF:
		return stickerCDN + item.ID + ".gif", item.ID + ".gif", "image/gif", nil
	case discordgo.StickerFormatTypeLottie:
		return "", "", "", errLottieSticker
	default:
		return "", "", "", fmt.Errorf("unknown sticker format %d", item.FormatType)
	}
}

// findSticker matches a sticker by ID or, case-insensitively, by name
func findSticker(stickers []*discordgo.Sticker, query string) *discordgo.Sticker {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	for _, st := range stickers {
		if st.ID == query {
			return st
		}
	}
	for _, st := range stickers {
		if strings.EqualFold(st.Name, query) {
			return st
		}
	}
	return nil
}

func validStickerName(name string) bool {
	n := len([]rune(name))
	return n >= minStickerName && n <= maxStickerName
}

type stickerUpload struct {
	Name        string
	Description string
	Tags        string
	FileName    string
	MediaType   string
	Data        []byte
}

// form encodes the upload as the multipart form the create endpoint expects.
// The endpoint takes plain form fields rather than a payload_json part.
func (u stickerUpload) form() (contentType string, body []byte, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	description := u.Description
	// Descriptions are either empty or 2-100 characters
	if len([]rune(description)) < 2 {
		description = ""
	}
	tags := u.Tags
	if tags == "" {
		tags = u.Name
	}

	for _, field := range [][2]string{{"name", u.Name}, {"description", description}, {"tags", tags}} {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return "", nil, fmt.Errorf("failed to write %s field: %w", field[0], err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, u.FileName))
	h.Set("Content-Type", u.MediaType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(u.Data); err != nil {
		return "", nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to close form: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

// handleSticker routes /sticker subcommands
func (f *Feature) handleSticker(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "steal":
		f.handleStickerSteal(s, i, opts)
	case "rename":
		f.handleStickerRename(s, i, opts)
	case "delete":
		f.handleStickerDelete(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// handleStickerSteal copies a guild sticker from a linked message or the recent channel history
func (f *Feature) handleStickerSteal(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	if _, err := common.GuildID(i); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stickerTimeout)
	defer cancel()

	created, err := f.stealSticker(ctx, s, i, strings.TrimSpace(opts.String("message")), strings.TrimSpace(opts.String("name")))
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   i.GuildID,
		"sticker_id": created.ID,
		"name":       created.Name,
	}).Info("Sticker added")
	common.LogResponseError(i, common.FollowUpSuccess(s, i, fmt.Sprintf("Added sticker **%s**", created.Name), false))
}

func (f *Feature) stealSticker(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, messageRef, name string) (*discordgo.Sticker, error) {
	item, err := findStickerItem(ctx, s, i.ChannelID, messageRef)
	if err != nil {
		return nil, err
	}

	source, err := requestSticker(ctx, s, http.MethodGet, discordgo.EndpointSticker(item.ID), nil)
	if err != nil {
		return nil, err
	}
	if source.Type != discordgo.StickerTypeGuild {
		return nil, errStandardSticker
	}
	if source.GuildID == i.GuildID {
		return nil, errStickerIsLocal
	}

	if name == "" {
		name = source.Name
	}
	if !validStickerName(name) {
		return nil, errStickerName
	}

	if err := checkStickerSlots(ctx, s, i.GuildID); err != nil {
		return nil, err
	}

	url, fileName, mediaType, err := stickerFile(item)
	if err != nil {
		return nil, err
	}
	data, _, err := f.fetch(ctx, url, maxStickerBytes)
	if err != nil {
		return nil, err
	}
	if len(data) > maxStickerBytes {
		return nil, errStickerTooLarge
	}

	contentType, body, err := stickerUpload{
		Name:        name,
		Description: source.Description,
		Tags:        source.Tags,
		FileName:    fileName,
		MediaType:   mediaType,
		Data:        data,
	}.form()
	if err != nil {
		return nil, err
	}

	endpoint := discordgo.EndpointGuildStickers(i.GuildID)
	resp, err := s.RequestRaw(http.MethodPost, endpoint, contentType, body, endpoint, 0,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Added by "+common.UserDisplayName(i.Member.User)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sticker: %w", err)
	}
	var created discordgo.Sticker
	if err := discordgo.Unmarshal(resp, &created); err != nil {
		return nil, fmt.Errorf("failed to decode sticker: %w", err)
	}
	return &created, nil
}

// findStickerItem reads the referenced message, or scans recent history when none is given
func findStickerItem(ctx context.Context, s *discordgo.Session, channelID, messageRef string) (*discordgo.StickerItem, error) {
	if messageRef == "" {
		recent, err := s.ChannelMessages(channelID, stickerScanDepth, "", "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to read channel history: %w", err)
		}
		if item := firstSticker(recent); item != nil {
			return item, nil
		}
		return nil, errNoStickerNearby
	}

	messageID := messageRef
	if link, err := utils.ParseMessageLink(messageRef); err == nil {
		channelID = common.FormatID(link.ChannelID)
		messageID = common.FormatID(link.MessageID)
	} else if _, err := common.ParseID(messageRef); err != nil {
		return nil, errBadMessageRef
	}

	msg, err := s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		if common.IsNotFound(err) {
			return nil, errBadMessageRef
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}
	if item := firstSticker([]*discordgo.Message{msg}); item != nil {
		return item, nil
	}
	return nil, errNoSticker
}

func checkStickerSlots(ctx context.Context, s *discordgo.Session, guildID string) error {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		if guild, err = s.Guild(guildID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to get guild: %w", err)
		}
	}
	stickers, err := guildStickers(ctx, s, guildID)
	if err != nil {
		return err
	}
	if len(stickers) >= stickerSlots(guild.PremiumTier) {
		return errStickerSlots
	}
	return nil
}

func guildStickers(ctx context.Context, s *discordgo.Session, guildID string) ([]*discordgo.Sticker, error) {
	resp, err := s.RequestWithBucketID(http.MethodGet, discordgo.EndpointGuildStickers(guildID), nil,
		discordgo.EndpointGuildStickers(guildID), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list stickers: %w", err)
	}
	var stickers []*discordgo.Sticker
	if err := discordgo.Unmarshal(resp, &stickers); err != nil {
		return nil, fmt.Errorf("failed to decode stickers: %w", err)
	}
	return stickers, nil
}

func requestSticker(ctx context.Context, s *discordgo.Session, method, endpoint string, data interface{}, options ...discordgo.RequestOption) (*discordgo.Sticker, error) {
	options = append(options, discordgo.WithContext(ctx))
	resp, err := s.RequestWithBucketID(method, endpoint, data, endpoint, options...)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, errStickerNotFound
		}
		return nil, fmt.Errorf("sticker request failed: %w", err)
	}
	var sticker discordgo.Sticker
	if err := discordgo.Unmarshal(resp, &sticker); err != nil {
		return nil, fmt.Errorf("failed to decode sticker: %w", err)
	}
	return &sticker, nil
}

// lookupSticker resolves the sticker option against the guild's stickers
func lookupSticker(ctx context.Context, s *discordgo.Session, guildID, query string) (*discordgo.Sticker, error) {
	stickers, err := guildStickers(ctx, s, guildID)
	if err != nil {
		return nil, err
	}
	sticker := findSticker(stickers, query)
	if sticker == nil {
		return nil, errStickerNotFound
	}
	return sticker, nil
}

func (f *Feature) handleStickerRename(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	name := strings.TrimSpace(opts.String("name"))
	if !validStickerName(name) {
		common.HandleError(s, i, errStickerName, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stickerTimeout)
	defer cancel()

	sticker, err := lookupSticker(ctx, s, i.GuildID, opts.String("sticker"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	renamed, err := requestSticker(ctx, s, http.MethodPatch, discordgo.EndpointGuildSticker(i.GuildID, sticker.ID),
		map[string]string{"name": name},
		discordgo.WithAuditLogReason("Renamed by "+common.UserDisplayName(i.Member.User)))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.LogResponseError(i, common.RespondSuccess(s, i, fmt.Sprintf("Renamed **%s** to **%s**.", sticker.Name, renamed.Name), false))
}

func (f *Feature) handleStickerDelete(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	ctx, cancel := context.WithTimeout(context.Background(), stickerTimeout)
	defer cancel()

	sticker, err := lookupSticker(ctx, s, i.GuildID, opts.String("sticker"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	endpoint := discordgo.EndpointGuildSticker(i.GuildID, sticker.ID)
	_, err = s.RequestWithBucketID(http.MethodDelete, endpoint, nil, endpoint,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason("Deleted by "+common.UserDisplayName(i.Member.User)))
	if err != nil {
		if common.IsNotFound(err) {
			common.HandleError(s, i, errStickerNotFound, false)
			return
		}
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   i.GuildID,
		"sticker_id": sticker.ID,
	}).Info("Sticker deleted")
	common.LogResponseError(i, common.RespondSuccess(s, i, fmt.Sprintf("Deleted sticker **%s**.", sticker.Name), false))
}

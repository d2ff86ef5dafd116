package emoji

import (
	"net/http"

	"warden/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature adds, copies and deletes custom emojis and stickers
type Feature struct {
	httpClient *http.Client
}

// NewFeature creates a new emoji feature
func NewFeature(httpClient *http.Client) *Feature {
	return &Feature{httpClient: httpClient}
}

// HandleCommand routes /emoji and /sticker subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RequirePermission(i, common.PermissionManageExpressions, "Manage Expressions"); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if i.ApplicationCommandData().Name == "sticker" {
		f.handleSticker(s, i)
		return
	}

	sub, opts := common.Subcommand(i.ApplicationCommandData())
	switch sub {
	case "add":
		f.handleAdd(s, i, opts)
	case "steal":
		f.handleSteal(s, i, opts)
	case "delete":
		f.handleDelete(s, i, opts)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// Commands returns the /emoji and /sticker commands
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	perm := common.PermissionManageExpressions
	name := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Emoji name (letters, numbers and underscores)",
			Required:    required,
			MinLength:   &minNameLength,
			MaxLength:   maxNameLength,
		}
	}
	emoji := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "emoji",
		Description: "Custom emoji",
		Required:    true,
	}
	minSticker := minStickerName
	sticker := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "sticker",
		Description: "Sticker name or ID",
		Required:    true,
	}
	stickerName := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Sticker name",
			Required:    required,
			MinLength:   &minSticker,
			MaxLength:   maxStickerName,
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "emoji",
			Description:              "Manage custom emojis",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Upload an emoji from an image link",
					Options: []*discordgo.ApplicationCommandOption{
						name(true),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "url",
							Description: "PNG, JPEG, GIF or WebP image link",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "steal",
					Description: "Copy a custom emoji from another server",
					Options:     []*discordgo.ApplicationCommandOption{emoji, name(false)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a custom emoji from this server",
					Options:     []*discordgo.ApplicationCommandOption{emoji},
				},
			},
		},
		{
			Name:                     "sticker",
			Description:              "Manage server stickers",
			DefaultMemberPermissions: &perm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "steal",
					Description: "Copy a sticker from a message or the latest one in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "Message link or ID",
						},
						stickerName(false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rename",
					Description: "Rename a sticker in this server",
					Options:     []*discordgo.ApplicationCommandOption{sticker, stickerName(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a sticker from this server",
					Options:     []*discordgo.ApplicationCommandOption{sticker},
				},
			},
		},
	}
}

package automation

import (
	"context"
	"testing"

	"warden/domain/entities"
	"warden/domain/interfaces"
	"warden/domain/testhelpers"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticSnapshots struct {
	snapshot *entities.AutomationSnapshot
}

func (s staticSnapshots) Get(_ context.Context, _ int64) (*entities.AutomationSnapshot, error) {
	return s.snapshot, nil
}

func TestParseEmojiList(t *testing.T) {
	t.Parallel()

	got := parseEmojiList("👍  <:party:123456789012345678> 👍 <a:wave:223456789012345678>")
	assert.Equal(t, []string{"👍", "party:123456789012345678", "wave:223456789012345678"}, got)
	assert.Empty(t, parseEmojiList("   "))
}

func TestEmojiKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🔥", emojiKey(&discordgo.Emoji{Name: "🔥"}))
	assert.Equal(t, "party:42", emojiKey(&discordgo.Emoji{Name: "party", ID: "42"}))
	assert.Equal(t, "<:party:42>", renderEmoji("party:42"))
	assert.Equal(t, "🔥", renderEmoji("🔥"))
}

func TestBuildReactionRolesEmbed_GroupsByMessage(t *testing.T) {
	t.Parallel()

	embed := buildReactionRolesEmbed(1, []*entities.ReactionRole{
		{ChannelID: 10, MessageID: 100, Emoji: "🔥", RoleID: 5},
		{ChannelID: 11, MessageID: 200, Emoji: "party:42", RoleID: 6},
		{ChannelID: 10, MessageID: 100, Emoji: "👍", RoleID: 7},
	})

	want := "[Message](https://discord.com/channels/1/10/100)\n🔥 → <@&5>\n👍 → <@&7>\n" +
		"[Message](https://discord.com/channels/1/11/200)\n<:party:42> → <@&6>"
	assert.Equal(t, want, embed.Description)
}

func TestBuildRespondersEmbed(t *testing.T) {
	t.Parallel()

	embed := buildRespondersEmbed([]*entities.AutoResponder{
		{Trigger: "hello", Response: "hi there", Strict: true, Reply: true},
		{Trigger: "rules", Response: "read #rules"},
	})
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "hello (strict, reply)", embed.Fields[0].Name)
	assert.Equal(t, "rules", embed.Fields[1].Name)

	assert.Equal(t, "No autoresponders configured.", buildRespondersEmbed(nil).Description)
}

func TestApplyAutoRoles_SkipsUnassignable(t *testing.T) {
	t.Parallel()

	gateway := new(testhelpers.MockModerationGateway)
	gateway.On("UnassignableRoleIDs", mock.Anything, int64(1)).Return(map[int64]bool{20: true}, nil)
	gateway.On("AddRole", mock.Anything, int64(1), int64(7), int64(10), autoRoleReason).Return(nil)

	f := NewFeature(nil, nil, gateway, staticSnapshots{snapshot: &entities.AutomationSnapshot{
		GuildID:   1,
		AutoRoles: []*entities.AutoRole{{GuildID: 1, RoleID: 10}, {GuildID: 1, RoleID: 20}},
	}})

	f.ApplyAutoRoles(context.Background(), &discordgo.Member{GuildID: "1", User: &discordgo.User{ID: "7"}})

	gateway.AssertExpectations(t)
	gateway.AssertNotCalled(t, "AddRole", mock.Anything, int64(1), int64(7), int64(20), mock.Anything)
}

func TestReactionRoles(t *testing.T) {
	t.Parallel()

	snapshot := &entities.AutomationSnapshot{
		GuildID: 1,
		ReactionRoles: []*entities.ReactionRole{
			{GuildID: 1, ChannelID: 10, MessageID: 100, Emoji: "party:42", RoleID: 5},
		},
	}
	reaction := func(userID, emojiID string) *discordgo.MessageReaction {
		return &discordgo.MessageReaction{
			UserID:    userID,
			MessageID: "100",
			ChannelID: "10",
			GuildID:   "1",
			Emoji:     discordgo.Emoji{Name: "party", ID: emojiID},
		}
	}

	t.Run("add grants the bound role", func(t *testing.T) {
		t.Parallel()
		gateway := new(testhelpers.MockModerationGateway)
		gateway.On("BotUserID").Return(int64(99))
		gateway.On("AddRole", mock.Anything, int64(1), int64(7), int64(5), reactionRoleReason).Return(nil)

		f := NewFeature(nil, nil, gateway, staticSnapshots{snapshot: snapshot})
		f.OnReactionAdd(context.Background(), &discordgo.MessageReactionAdd{MessageReaction: reaction("7", "42")})

		gateway.AssertExpectations(t)
	})

	t.Run("unbound emoji is ignored", func(t *testing.T) {
		t.Parallel()
		gateway := new(testhelpers.MockModerationGateway)
		gateway.On("BotUserID").Return(int64(99))

		f := NewFeature(nil, nil, gateway, staticSnapshots{snapshot: snapshot})
		f.OnReactionAdd(context.Background(), &discordgo.MessageReactionAdd{MessageReaction: reaction("7", "43")})

		gateway.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bot reactions are ignored", func(t *testing.T) {
		t.Parallel()
		gateway := new(testhelpers.MockModerationGateway)

		f := NewFeature(nil, nil, gateway, staticSnapshots{snapshot: snapshot})
		f.OnReactionAdd(context.Background(), &discordgo.MessageReactionAdd{
			MessageReaction: reaction("7", "42"),
			Member:          &discordgo.Member{User: &discordgo.User{ID: "7", Bot: true}},
		})

		gateway.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("remove revokes the bound role", func(t *testing.T) {
		t.Parallel()
		gateway := new(testhelpers.MockModerationGateway)
		gateway.On("BotUserID").Return(int64(99))
		gateway.On("Member", mock.Anything, int64(1), int64(7)).Return(&interfaces.MemberInfo{UserID: 7}, nil)
		gateway.On("RemoveRole", mock.Anything, int64(1), int64(7), int64(5), reactionRoleReason).Return(nil)

		f := NewFeature(nil, nil, gateway, staticSnapshots{snapshot: snapshot})
		f.OnReactionRemove(context.Background(), &discordgo.MessageReactionRemove{MessageReaction: reaction("7", "42")})

		gateway.AssertExpectations(t)
	})
}

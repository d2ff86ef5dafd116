package boosterrole

import (
	"testing"
	"time"

	"warden/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestKeepsBoosterRole(t *testing.T) {
	t.Parallel()

	since := time.Now().Add(-time.Hour)
	roles := []*discordgo.Role{{ID: "5"}}

	tests := []struct {
		name   string
		member *discordgo.Member
		roleID int64
		want   bool
	}{
		{"left the server", nil, 5, false},
		{"stopped boosting", &discordgo.Member{Roles: []string{"5"}}, 5, false},
		{"role deleted", &discordgo.Member{PremiumSince: &since, Roles: []string{"6"}}, 6, false},
		{"lost the role", &discordgo.Member{PremiumSince: &since}, 5, false},
		{"active booster", &discordgo.Member{PremiumSince: &since, Roles: []string{"5"}}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, keepsBoosterRole(tt.member, roles, tt.roleID))
		})
	}
}

func TestBelowPosition(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, belowPosition(5))
	assert.Equal(t, 1, belowPosition(1))
	assert.Equal(t, 1, belowPosition(0))
}

func TestRequireBooster(t *testing.T) {
	t.Parallel()

	since := time.Now()
	booster := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: &discordgo.Member{PremiumSince: &since}}}
	regular := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: &discordgo.Member{}}}

	assert.NoError(t, requireBooster(booster))
	assert.ErrorIs(t, requireBooster(regular), errNotBooster)
}

func TestBuildListEmbed(t *testing.T) {
	t.Parallel()

	embed := buildListEmbed([]*entities.BoosterRole{{UserID: 1, RoleID: 2}, {UserID: 3, RoleID: 4}})
	assert.Equal(t, "<@1> → <@&2>\n<@3> → <@&4>", embed.Description)
	assert.Equal(t, "2 booster roles", embed.Footer.Text)

	assert.Equal(t, "Nobody has a booster role yet.", buildListEmbed(nil).Description)
}

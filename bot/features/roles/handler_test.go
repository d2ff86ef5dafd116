package roles

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMassRoleTargets(t *testing.T) {
	t.Parallel()

	members := []*discordgo.Member{
		{User: &discordgo.User{ID: "1"}, Roles: []string{"r"}},
		{User: &discordgo.User{ID: "2"}},
		{User: &discordgo.User{ID: "3", Bot: true}},
		{User: &discordgo.User{ID: "4", Bot: true}, Roles: []string{"r"}},
		{},
	}

	tests := []struct {
		name   string
		target massTarget
		add    bool
		want   []string
	}{
		{"add to everyone", targetAll, true, []string{"2", "3"}},
		{"add to humans", targetHumans, true, []string{"2"}},
		{"add to bots", targetBots, true, []string{"3"}},
		{"remove from everyone", targetAll, false, []string{"1", "4"}},
		{"remove from humans", targetHumans, false, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, massRoleTargets(members, "r", tt.target, tt.add))
		})
	}
}

func TestMassRoleSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		add    bool
		edited int
		failed int
		total  int
		want   string
	}{
		{name: "complete add", add: true, edited: 3, total: 3, want: "Added <@&9> for 3 members"},
		{name: "single removal", edited: 1, total: 1, want: "Removed <@&9> for 1 member"},
		{name: "failures", add: true, edited: 2, failed: 1, total: 3, want: "Added <@&9> for 2 members (1 failed)"},
		{name: "cut short", add: true, edited: 5, failed: 1, total: 10, want: "Added <@&9> for 5 members (1 failed) (stopped with 4 left)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, massRoleSummary(9, tt.add, tt.edited, tt.failed, tt.total))
		})
	}
}

func TestMassRoleMaxRunFitsInteractionToken(t *testing.T) {
	t.Parallel()
	assert.Less(t, massRoleMaxRun, 15*time.Minute)
}

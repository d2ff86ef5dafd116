package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCaseAction_Colour(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action CaseAction
		want   int
	}{
		{CaseActionBan, caseColourRed},
		{CaseActionKick, caseColourRed},
		{CaseActionTimeout, caseColourRed},
		{CaseActionJail, caseColourRed},
		{CaseActionUnban, caseColourGreen},
		{CaseActionUntimeout, caseColourGreen},
		{CaseActionUnjail, caseColourGreen},
		{CaseActionRoleAdd, caseColourGreen},
		{CaseActionWarn, caseColourYellow},
		{CaseActionRoleRemove, caseColourGrey},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.action.Colour())
		})
	}
}

func TestCaseAction_Title(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ban", CaseActionBan.Title())
	assert.Equal(t, "Role Add", CaseActionRoleAdd.Title())
	assert.Equal(t, "Untimeout", CaseActionUntimeout.Title())
	assert.Equal(t, "Nickname", CaseActionNickname.Title())
}

func TestModCase_Duration(t *testing.T) {
	t.Parallel()

	seconds := int64(600)
	withDuration := &ModCase{DurationSeconds: &seconds}
	assert.True(t, withDuration.HasDuration())
	assert.Equal(t, 10*time.Minute, withDuration.Duration())

	without := &ModCase{}
	assert.False(t, without.HasDuration())
	assert.Equal(t, time.Duration(0), without.Duration())
}

func TestGuildSettings_Templates(t *testing.T) {
	t.Parallel()

	custom := "hi {user.mention}"
	empty := ""
	settings := &GuildSettings{WelcomeMessage: &custom, LeaveMessage: &empty}

	assert.Equal(t, custom, settings.WelcomeTemplate())
	assert.Equal(t, DefaultLeaveMessage, settings.LeaveTemplate())
	assert.Equal(t, DefaultBoostMessage, settings.BoostTemplate())
}

func TestAutomationSnapshot_ReactionRoleFor(t *testing.T) {
	t.Parallel()

	snapshot := &AutomationSnapshot{
		ReactionRoles: []*ReactionRole{
			{MessageID: 1, Emoji: "👍", RoleID: 10},
			{MessageID: 1, Emoji: "party:42", RoleID: 11},
		},
	}

	assert.Equal(t, int64(11), snapshot.ReactionRoleFor(1, "party:42").RoleID)
	assert.Nil(t, snapshot.ReactionRoleFor(2, "👍"))
}

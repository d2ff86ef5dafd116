package cases

import (
	"testing"
	"time"

	"warden/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCaseEmbed(t *testing.T) {
	t.Parallel()

	seconds := int64(3600)
	modCase := &entities.ModCase{
		CaseNumber:      12,
		Action:          entities.CaseActionTimeout,
		TargetID:        111,
		ModeratorID:     222,
		Reason:          "spam",
		DurationSeconds: &seconds,
		CreatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	embed := BuildCaseEmbed(modCase)

	assert.Contains(t, embed.Title, "Case #12 | Timeout")
	assert.Equal(t, entities.CaseActionTimeout.Colour(), embed.Color)
	assert.Equal(t, "2024-01-02T03:04:05Z", embed.Timestamp)

	names := make([]string, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"User", "Moderator", "Duration", "Reason"}, names)
}

func TestBuildCaseEmbed_RoleCase(t *testing.T) {
	t.Parallel()

	roleID := int64(999)
	embed := BuildCaseEmbed(&entities.ModCase{
		CaseNumber: 1,
		Action:     entities.CaseActionRoleAdd,
		RoleID:     &roleID,
	})

	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "<@&999>", embed.Fields[2].Value)
	assert.Equal(t, "No reason provided", embed.Fields[3].Value)
}

func TestHistoryButtons(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		userID, page, ok := parseHistoryButton(historyButtonID(42, 3))
		require.True(t, ok)
		assert.Equal(t, int64(42), userID)
		assert.Equal(t, 3, page)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, id := range []string{"history_page:", "history_page:x:1", "history_page:1:-1", "history_page:1"} {
			_, _, ok := parseHistoryButton(id)
			assert.False(t, ok, id)
		}
	})

	t.Run("single page has no buttons", func(t *testing.T) {
		assert.Nil(t, historyButtons(1, 0, 1))
		assert.Len(t, historyButtons(1, 0, 2), 1)
	})
}

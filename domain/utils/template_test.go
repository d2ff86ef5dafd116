package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMemberTemplate(t *testing.T) {
	t.Parallel()

	vars := MemberVars{
		UserID:      42,
		Username:    "alice",
		DisplayName: "Alice",
		AvatarURL:   "https://cdn.example/a.png",
		GuildID:     7,
		GuildName:   "Test Guild",
		MemberCount: 23,
		BoostCount:  3,
	}

	tests := []struct {
		name string
		tpl  string
		want string
	}{
		{
			name: "mention and ordinal",
			tpl:  "Welcome {user.mention}, you are our {guild.member_count.ordinal} member!",
			want: "Welcome <@42>, you are our 23rd member!",
		},
		{
			name: "bare user is a mention",
			tpl:  "hi {user}",
			want: "hi <@42>",
		},
		{
			name: "guild fields",
			tpl:  "{guild.name} ({guild.id}) has {guild.member_count} members and {guild.boost_count} boosts",
			want: "Test Guild (7) has 23 members and 3 boosts",
		},
		{
			name: "user fields",
			tpl:  "{user.name}/{user.display_name}/{user.id}/{user.avatar}",
			want: "alice/Alice/42/https://cdn.example/a.png",
		},
		{
			name: "unknown variables are untouched",
			tpl:  "{user.nope} {channel}",
			want: "{user.nope} {channel}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RenderMemberTemplate(tt.tpl, vars))
		})
	}
}

func TestRenderMemberTemplate_DisplayNameFallback(t *testing.T) {
	t.Parallel()

	got := RenderMemberTemplate("{user.display_name}", MemberVars{Username: "bob"})
	assert.Equal(t, "bob", got)
}

package lockdown

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestLockOverwrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		allow     int64
		deny      int64
		wantAllow int64
		wantDeny  int64
		locked    bool
	}{
		{
			name:     "lock empty overwrite",
			locked:   true,
			wantDeny: sendPermissions,
		},
		{
			name:      "lock keeps unrelated bits",
			allow:     discordgo.PermissionSendMessages | discordgo.PermissionAddReactions,
			deny:      discordgo.PermissionAttachFiles,
			locked:    true,
			wantAllow: discordgo.PermissionAddReactions,
			wantDeny:  discordgo.PermissionAttachFiles | sendPermissions,
		},
		{
			name:     "unlock removes only the send deny",
			deny:     discordgo.PermissionAttachFiles | sendPermissions,
			wantDeny: discordgo.PermissionAttachFiles,
		},
		{
			name: "unlock empty overwrite is a no-op",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var allow, deny int64
			if tt.locked {
				allow, deny = lockedOverwrite(tt.allow, tt.deny)
			} else {
				allow, deny = unlockedOverwrite(tt.allow, tt.deny)
			}
			assert.Equal(t, tt.wantAllow, allow)
			assert.Equal(t, tt.wantDeny, deny)
		})
	}
}

func TestEveryoneOverwrite(t *testing.T) {
	t.Parallel()

	channel := &discordgo.Channel{
		GuildID: "1",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "2", Type: discordgo.PermissionOverwriteTypeRole, Deny: 8},
			{ID: "1", Type: discordgo.PermissionOverwriteTypeRole, Allow: 4, Deny: 16},
		},
	}

	allow, deny := everyoneOverwrite(channel)
	assert.Equal(t, int64(4), allow)
	assert.Equal(t, int64(16), deny)

	allow, deny = everyoneOverwrite(&discordgo.Channel{GuildID: "1"})
	assert.Zero(t, allow)
	assert.Zero(t, deny)
}

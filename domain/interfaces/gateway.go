package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when another run holds the requested lock
var ErrLockHeld = errors.New("operation already running")

// MemberInfo is the view of a guild member needed for moderation decisions
type MemberInfo struct {
	UserID          int64
	Username        string
	Bot             bool
	RoleIDs         []int64
	TopRolePosition int
}

// RoleInfo is the view of a guild role needed for hierarchy checks
type RoleInfo struct {
	ID       int64
	Name     string
	Position int
	Managed  bool
}

// GuildInfo is the view of a guild needed for moderation decisions
type GuildInfo struct {
	ID      int64
	Name    string
	OwnerID int64
}

// ModerationGateway performs moderation calls against the chat platform
type ModerationGateway interface {
	Guild(ctx context.Context, guildID int64) (*GuildInfo, error)
	// Member returns nil when the user is not in the guild
	Member(ctx context.Context, guildID, userID int64) (*MemberInfo, error)
	BotUserID() int64

	// Role returns nil when the role does not exist
	Role(ctx context.Context, guildID, roleID int64) (*RoleInfo, error)

	// UnassignableRoleIDs returns roles the bot cannot assign or remove, such as
	// integration roles and roles above its own
	UnassignableRoleIDs(ctx context.Context, guildID int64) (map[int64]bool, error)

	Ban(ctx context.Context, guildID, userID int64, reason string, deleteMessageDays int) error
	Unban(ctx context.Context, guildID, userID int64, reason string) error
	Kick(ctx context.Context, guildID, userID int64, reason string) error

	// Timeout communicates a timeout until the given time; nil clears it
	Timeout(ctx context.Context, guildID, userID int64, until *time.Time, reason string) error
	AddRole(ctx context.Context, guildID, userID, roleID int64, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID int64, reason string) error
	SetRoles(ctx context.Context, guildID, userID int64, roleIDs []int64, reason string) error
	SetNickname(ctx context.Context, guildID, userID int64, nickname, reason string) error

	// SendDirectMessage delivers a DM; callers treat failures as non-fatal
	SendDirectMessage(ctx context.Context, userID int64, content string) error
}

// Locker provides exclusive guild-scoped locks for long running operations
type Locker interface {
	// Acquire returns a release func, or ErrLockHeld when the key is taken
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

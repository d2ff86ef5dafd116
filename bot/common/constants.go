package common

// Colour constants for embeds
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287
	ColorDanger  = 0xED4245
	ColorWarning = 0xFEE75C
	ColorInfo    = 0x3498DB
)

// Discord limits
const (
	MaxEmbedDescription = 4096
	MaxMessageContent   = 2000
	MaxFieldValue       = 1024
	MaxEmbedFields      = 25
)

// PermissionManageExpressions is the Manage Expressions permission bit (formerly Manage Emojis)
const PermissionManageExpressions int64 = 1 << 30

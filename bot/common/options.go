package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// NewOptions indexes a list of options
func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	m := make(Options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// Subcommand resolves the invoked subcommand, descending into a group.
// The returned path is "group sub" or "sub"; empty when the command has none.
func Subcommand(data discordgo.ApplicationCommandInteractionData) (string, Options) {
	if len(data.Options) == 0 {
		return "", Options{}
	}
	first := data.Options[0]
	switch first.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(first.Options) == 0 {
			return first.Name, Options{}
		}
		sub := first.Options[0]
		return first.Name + " " + sub.Name, NewOptions(sub.Options)
	case discordgo.ApplicationCommandOptionSubCommand:
		return first.Name, NewOptions(first.Options)
	}
	return "", NewOptions(data.Options)
}

// Has reports whether the option was given
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// String returns a string option or ""
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(string); ok {
			return v
		}
	}
	return ""
}

// Int returns an integer option or def
func (o Options) Int(name string, def int64) int64 {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(float64); ok {
			return int64(v)
		}
	}
	return def
}

// Bool returns a boolean option or def
func (o Options) Bool(name string, def bool) bool {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(bool); ok {
			return v
		}
	}
	return def
}

// ID returns a user, role, channel or mentionable option as a snowflake, or 0
func (o Options) ID(name string) int64 {
	id, err := strconv.ParseInt(o.String(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// OptionalID returns a pointer to the snowflake, or nil when absent
func (o Options) OptionalID(name string) *int64 {
	id := o.ID(name)
	if id == 0 {
		return nil
	}
	return &id
}

// OptionalString returns a pointer to the string, or nil when absent
func (o Options) OptionalString(name string) *string {
	if !o.Has(name) {
		return nil
	}
	s := o.String(name)
	return &s
}

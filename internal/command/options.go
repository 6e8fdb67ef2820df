package command

import "github.com/bwmarrin/discordgo"

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// options indexes the top-level interaction options by name.
func options(i *discordgo.InteractionCreate) optionMap {
	m := make(optionMap)
	for _, opt := range i.ApplicationCommandData().Options {
		m[opt.Name] = opt
	}
	return m
}

// subOptions indexes a subcommand's nested options by name.
func subOptions(opt *discordgo.ApplicationCommandInteractionDataOption) optionMap {
	m := make(optionMap)
	for _, sub := range opt.Options {
		m[sub.Name] = sub
	}
	return m
}

func (m optionMap) str(name string) string {
	if o, ok := m[name]; ok {
		return o.StringValue()
	}
	return ""
}

func (m optionMap) integer(name string) int64 {
	if o, ok := m[name]; ok {
		return o.IntValue()
	}
	return 0
}

func (m optionMap) boolean(name string) bool {
	if o, ok := m[name]; ok {
		return o.BoolValue()
	}
	return false
}

// snowflake returns the raw id of a user or channel option.
func (m optionMap) snowflake(name string) string {
	if o, ok := m[name]; ok {
		if id, ok := o.Value.(string); ok {
			return id
		}
	}
	return ""
}

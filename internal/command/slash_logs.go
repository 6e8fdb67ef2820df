package command

import (
	"context"
	"fmt"

	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var logsPerms = int64(discordgo.PermissionManageGuild)

type LogsCommand struct{}

func (c *LogsCommand) Name() string        { return "logs" }
func (c *LogsCommand) Description() string { return "Configure the command-executed log" }

func (c *LogsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &logsPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "toggle",
				Description: "Turn command logging on or off",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "enabled",
						Description: "Whether executed commands are logged",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "channel",
				Description: "Set the channel receiving the command log",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "The log channel",
						Required:     true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "info",
				Description: "Show the current command log settings",
			},
		},
	}
}

func (c *LogsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event

	data := event.ApplicationCommandData()
	if len(data.Options) == 0 {
		return RespondEphemeral(session, event, "Pick a subcommand.")
	}
	sub := data.Options[0]
	opts := subOptions(sub)

	switch sub.Name {
	case "toggle":
		enabled := opts.boolean("enabled")
		if err := sc.Storage.SetLogging(event.GuildID, enabled); err != nil {
			return fmt.Errorf("toggle logging: %w", err)
		}
		if enabled {
			return RespondEphemeral(session, event, "Command logging enabled.")
		}
		return RespondEphemeral(session, event, "Command logging disabled.")

	case "channel":
		channelID := opts.snowflake("channel")
		if err := sc.Storage.SetLogChannel(event.GuildID, channelID); err != nil {
			return fmt.Errorf("set log channel: %w", err)
		}
		return RespondEphemeral(session, event, fmt.Sprintf("Command log will be posted in <#%s>.", channelID))

	case "info":
		policy, err := sc.Storage.GuildPolicy(event.GuildID)
		if err != nil {
			return fmt.Errorf("read guild settings: %w", err)
		}
		state := "disabled"
		if policy.LoggingEnabled {
			state = "enabled"
		}
		channel := "not set"
		if policy.LogChannelID != "" {
			channel = "<#" + policy.LogChannelID + ">"
		}
		return RespondEphemeral(session, event, fmt.Sprintf("Command logging is %s. Channel: %s.", state, channel))

	default:
		return RespondEphemeral(session, event, "Unknown subcommand.")
	}
}

func init() {
	Register(cmd.Apply(&LogsCommand{}, WithGuildOnly()))
}

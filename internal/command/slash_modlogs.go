package command

import (
	"context"
	"fmt"

	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var modlogsPerms = int64(discordgo.PermissionManageGuild)

type ModlogsCommand struct{}

func (c *ModlogsCommand) Name() string        { return "modlogs" }
func (c *ModlogsCommand) Description() string { return "View a member's case history or configure case notifications" }

func (c *ModlogsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &modlogsPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "List every case recorded against a member",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "The member to look up",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "toggle",
				Description: "Turn case notifications on or off",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "enabled",
						Description: "Whether case notifications are posted",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "channel",
				Description: "Set the channel receiving case notifications",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "The notification channel",
						Required:     true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "info",
				Description: "Show the current case notification settings",
			},
		},
	}
}

func (c *ModlogsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
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
	case "view":
		targetID := opts.snowflake("user")
		recs, err := sc.Ledger.ListForUser(event.GuildID, targetID)
		if err != nil {
			return fmt.Errorf("list cases for %s: %w", targetID, err)
		}
		if len(recs) == 0 {
			return RespondEphemeral(session, event, fmt.Sprintf("<@%s> has no recorded cases.", targetID))
		}
		lines := make([]string, 0, len(recs))
		for _, rec := range recs {
			lines = append(lines, caseLine(rec))
		}
		return respondPages(sc, fmt.Sprintf("Mod logs (%d)", len(recs)), lines)

	case "toggle":
		enabled := opts.boolean("enabled")
		if err := sc.Storage.SetModLog(event.GuildID, enabled); err != nil {
			return fmt.Errorf("toggle modlogs: %w", err)
		}
		if enabled {
			return RespondEphemeral(session, event, "Case notifications enabled.")
		}
		return RespondEphemeral(session, event, "Case notifications disabled.")

	case "channel":
		channelID := opts.snowflake("channel")
		if err := sc.Storage.SetModLogChannel(event.GuildID, channelID); err != nil {
			return fmt.Errorf("set modlog channel: %w", err)
		}
		return RespondEphemeral(session, event, fmt.Sprintf("Case notifications will be posted in <#%s>.", channelID))

	case "info":
		policy, err := sc.Storage.GuildPolicy(event.GuildID)
		if err != nil {
			return fmt.Errorf("read guild settings: %w", err)
		}
		state := "disabled"
		if policy.ModLogEnabled {
			state = "enabled"
		}
		channel := "not set"
		if policy.ModLogChannelID != "" {
			channel = "<#" + policy.ModLogChannelID + ">"
		}
		return RespondEphemeral(session, event, fmt.Sprintf("Case notifications are %s. Channel: %s.", state, channel))

	default:
		return RespondEphemeral(session, event, "Unknown subcommand.")
	}
}

func init() {
	Register(cmd.Apply(&ModlogsCommand{}, WithGuildOnly()))
}

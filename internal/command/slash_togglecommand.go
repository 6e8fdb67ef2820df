package command

import (
	"context"
	"fmt"
	"time"

	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var togglePerms = int64(discordgo.PermissionManageGuild)

type ToggleCommand struct{}

func (c *ToggleCommand) Name() string        { return "togglecommand" }
func (c *ToggleCommand) Description() string { return "Enable or disable a command in this server" }

// Cooldown is longer than the default so rapid toggle flapping doesn't
// hammer the settings store.
func (c *ToggleCommand) Cooldown() time.Duration { return 5 * time.Second }

func (c *ToggleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &togglePerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "command",
				Description: "The command to toggle",
				Required:    true,
			},
		},
	}
}

func (c *ToggleCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event

	name := options(event).str("command")
	if cmd.DefaultRegistry.Get(name) == nil {
		return RespondEphemeral(session, event, fmt.Sprintf("There is no `%s` command.", name))
	}
	if name == c.Name() {
		// Locking yourself out of the toggle leaves no way back in.
		return RespondEphemeral(session, event, "You can't disable the toggle command itself.")
	}

	disabled, err := sc.Storage.IsCommandDisabled(event.GuildID, name)
	if err != nil {
		return fmt.Errorf("check %s: %w", name, err)
	}

	if disabled {
		if err := sc.Storage.EnableCommand(event.GuildID, name); err != nil {
			return fmt.Errorf("enable %s: %w", name, err)
		}
		return RespondEphemeral(session, event, fmt.Sprintf("The `%s` command is enabled again.", name))
	}

	if err := sc.Storage.DisableCommand(event.GuildID, name); err != nil {
		return fmt.Errorf("disable %s: %w", name, err)
	}
	return RespondEphemeral(session, event, fmt.Sprintf("The `%s` command is now disabled.", name))
}

func init() {
	Register(cmd.Apply(&ToggleCommand{}, WithGuildOnly()))
}

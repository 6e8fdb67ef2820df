package command

import (
	"context"
	"fmt"

	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var warnsPerms = int64(discordgo.PermissionModerateMembers)

type WarnsCommand struct{}

func (c *WarnsCommand) Name() string        { return "warns" }
func (c *WarnsCommand) Description() string { return "List a member's warnings" }

func (c *WarnsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &warnsPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member to look up",
				Required:    true,
			},
		},
	}
}

func (c *WarnsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	targetID := options(event).snowflake("user")

	warns, err := sc.Ledger.ListWarningsForUser(event.GuildID, targetID)
	if err != nil {
		return fmt.Errorf("list warnings for %s: %w", targetID, err)
	}
	if len(warns) == 0 {
		return RespondEphemeral(session, event, fmt.Sprintf("<@%s> has no warnings.", targetID))
	}

	lines := make([]string, 0, len(warns))
	for _, rec := range warns {
		lines = append(lines, caseLine(rec))
	}

	return respondPages(sc, fmt.Sprintf("Warnings (%d)", len(warns)), lines)
}

func init() {
	Register(cmd.Apply(&WarnsCommand{}, WithGuildOnly()))
}

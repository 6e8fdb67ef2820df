package command

import (
	"context"
	"fmt"

	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var reasonPerms = int64(discordgo.PermissionModerateMembers)

type ReasonCommand struct{}

func (c *ReasonCommand) Name() string        { return "reason" }
func (c *ReasonCommand) Description() string { return "Update the reason of an existing case" }

func (c *ReasonCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &reasonPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "case",
				Description: "The case number to update",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "The new reason",
				Required:    true,
			},
		},
	}
}

func (c *ReasonCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)
	caseID := opts.integer("case")

	ok, err := sc.Ledger.Amend(ctx, event.GuildID, caseID, opts.str("reason"))
	if err != nil {
		return fmt.Errorf("amend case %d: %w", caseID, err)
	}
	if !ok {
		return RespondEphemeral(session, event, fmt.Sprintf("Case #%d doesn't exist.", caseID))
	}

	return Respond(session, event, fmt.Sprintf("Reason for case #%d has been updated.", caseID))
}

func init() {
	Register(cmd.Apply(&ReasonCommand{}, WithGuildOnly()))
}

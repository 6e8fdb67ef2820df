package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var unwarnPerms = int64(discordgo.PermissionModerateMembers)

type UnwarnCommand struct{}

func (c *UnwarnCommand) Name() string        { return "unwarn" }
func (c *UnwarnCommand) Description() string { return "Delete a warning case" }

func (c *UnwarnCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &unwarnPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "case",
				Description: "The case number of the warning",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why the warning is removed",
			},
		},
	}
}

func (c *UnwarnCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)
	caseID := opts.integer("case")

	rec, found, err := sc.Ledger.FindByCase(event.GuildID, caseID)
	if err != nil {
		return fmt.Errorf("find case %d: %w", caseID, err)
	}
	if !found {
		return RespondEphemeral(session, event, fmt.Sprintf("Case #%d doesn't exist.", caseID))
	}
	if rec.Kind != modlog.KindModeration || rec.Action != modlog.ActionWarning {
		return RespondEphemeral(session, event, fmt.Sprintf("Case #%d is not a warning.", caseID))
	}

	if err := sc.Ledger.Remove(ctx, event.GuildID, caseID, opts.str("reason")); err != nil {
		return fmt.Errorf("remove case %d: %w", caseID, err)
	}

	return Respond(session, event, fmt.Sprintf("Warning case #%d for <@%s> has been removed.", caseID, rec.UserID))
}

func init() {
	Register(cmd.Apply(&UnwarnCommand{}, WithGuildOnly()))
}

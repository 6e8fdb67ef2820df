package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var untimeoutPerms = int64(discordgo.PermissionModerateMembers)

type UntimeoutCommand struct{}

func (c *UntimeoutCommand) Name() string        { return "untimeout" }
func (c *UntimeoutCommand) Description() string { return "Lift a member's timeout and record a case" }

func (c *UntimeoutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &untimeoutPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member to release",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why the timeout is lifted",
			},
		},
	}
}

func (c *UntimeoutCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)

	targetID := opts.snowflake("user")

	if err := session.GuildMemberTimeout(event.GuildID, targetID, nil); err != nil {
		return fmt.Errorf("untimeout %s: %w", targetID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindModeration,
		UserID:      targetID,
		ModeratorID: invokerID(event),
		Action:      "Untimeout",
		Reason:      opts.str("reason"),
	})
	if err != nil {
		return fmt.Errorf("record untimeout for %s: %w", targetID, err)
	}

	return Respond(session, event, fmt.Sprintf("Timeout removed from <@%s>. (Case #%d)", targetID, rec.ID))
}

func init() {
	Register(cmd.Apply(&UntimeoutCommand{}, WithGuildOnly()))
}

package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var warnPerms = int64(discordgo.PermissionModerateMembers)

type WarnCommand struct{}

func (c *WarnCommand) Name() string        { return "warn" }
func (c *WarnCommand) Description() string { return "Warn a member and record a case" }

func (c *WarnCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &warnPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member to warn",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why the warning is issued",
			},
		},
	}
}

func (c *WarnCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)

	targetID := opts.snowflake("user")
	moderatorID := invokerID(event)

	if targetID == moderatorID {
		return RespondEphemeral(session, event, "You can't warn yourself.")
	}
	if targetID == session.State.User.ID {
		return RespondEphemeral(session, event, "I'm not warning myself, thanks.")
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindModeration,
		UserID:      targetID,
		ModeratorID: moderatorID,
		Action:      modlog.ActionWarning,
		Reason:      opts.str("reason"),
	})
	if err != nil {
		return fmt.Errorf("warn %s: %w", targetID, err)
	}

	return Respond(session, event, fmt.Sprintf("<@%s> has been warned. (Case #%d)", targetID, rec.ID))
}

func init() {
	Register(cmd.Apply(&WarnCommand{}, WithGuildOnly()))
}

package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var kickPerms = int64(discordgo.PermissionKickMembers)

type KickCommand struct{}

func (c *KickCommand) Name() string        { return "kick" }
func (c *KickCommand) Description() string { return "Kick a member and record a case" }

func (c *KickCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &kickPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member to kick",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why the member is kicked",
			},
		},
	}
}

func (c *KickCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)

	targetID := opts.snowflake("user")
	reason := opts.str("reason")

	if targetID == invokerID(event) {
		return RespondEphemeral(session, event, "You can't kick yourself.")
	}

	if err := session.GuildMemberDeleteWithReason(event.GuildID, targetID, reason); err != nil {
		return fmt.Errorf("kick %s: %w", targetID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindModeration,
		UserID:      targetID,
		ModeratorID: invokerID(event),
		Action:      "Kick",
		Reason:      reason,
	})
	if err != nil {
		return fmt.Errorf("record kick of %s: %w", targetID, err)
	}

	return Respond(session, event, fmt.Sprintf("<@%s> has been kicked. (Case #%d)", targetID, rec.ID))
}

func init() {
	Register(cmd.Apply(&KickCommand{}, WithGuildOnly()))
}

package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var banPerms = int64(discordgo.PermissionBanMembers)

type BanCommand struct{}

func (c *BanCommand) Name() string        { return "ban" }
func (c *BanCommand) Description() string { return "Ban a member and record a case" }

func (c *BanCommand) SlashDefinition() *discordgo.ApplicationCommand {
	var minDays, maxDays float64 = 0, 7
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &banPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member to ban",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why the member is banned",
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "days",
				Description: "Days of message history to delete (0-7)",
				MinValue:    &minDays,
				MaxValue:    maxDays,
			},
		},
	}
}

func (c *BanCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)

	targetID := opts.snowflake("user")
	reason := opts.str("reason")

	if targetID == invokerID(event) {
		return RespondEphemeral(session, event, "You can't ban yourself.")
	}

	if err := session.GuildBanCreateWithReason(event.GuildID, targetID, reason, int(opts.integer("days"))); err != nil {
		return fmt.Errorf("ban %s: %w", targetID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindModeration,
		UserID:      targetID,
		ModeratorID: invokerID(event),
		Action:      "Ban",
		Reason:      reason,
	})
	if err != nil {
		return fmt.Errorf("record ban of %s: %w", targetID, err)
	}

	return Respond(session, event, fmt.Sprintf("<@%s> has been banned. (Case #%d)", targetID, rec.ID))
}

func init() {
	Register(cmd.Apply(&BanCommand{}, WithGuildOnly()))
}

package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var purgePerms = int64(discordgo.PermissionManageMessages)

type PurgeCommand struct{}

func (c *PurgeCommand) Name() string        { return "purge" }
func (c *PurgeCommand) Description() string { return "Bulk delete recent messages in this channel" }

func (c *PurgeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	var minAmount, maxAmount float64 = 1, 100
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &purgePerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "How many messages to delete (1-100)",
				Required:    true,
				MinValue:    &minAmount,
				MaxValue:    maxAmount,
			},
		},
	}
}

func (c *PurgeCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	amount := int(options(event).integer("amount"))

	msgs, err := session.ChannelMessages(event.ChannelID, amount, "", "", "")
	if err != nil {
		return fmt.Errorf("fetch messages in %s: %w", event.ChannelID, err)
	}
	if len(msgs) == 0 {
		return RespondEphemeral(session, event, "Nothing to delete here.")
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	if err := session.ChannelMessagesBulkDelete(event.ChannelID, ids); err != nil {
		return fmt.Errorf("bulk delete in %s: %w", event.ChannelID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindPurge,
		ModeratorID: invokerID(event),
		Action:      "Purge",
		ChannelID:   event.ChannelID,
		Amount:      len(ids),
	})
	if err != nil {
		return fmt.Errorf("record purge in %s: %w", event.ChannelID, err)
	}

	// Ephemeral so the confirmation doesn't become the next purge target.
	return RespondEphemeral(session, event, fmt.Sprintf("Deleted %d messages. (Case #%d)", len(ids), rec.ID))
}

func init() {
	Register(cmd.Apply(&PurgeCommand{}, WithGuildOnly()))
}

package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var slowmodePerms = int64(discordgo.PermissionManageChannels)

type SlowmodeCommand struct{}

func (c *SlowmodeCommand) Name() string        { return "slowmode" }
func (c *SlowmodeCommand) Description() string { return "Set the slowmode interval for this channel" }

func (c *SlowmodeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	// 21600 is the Discord-imposed maximum of 6 hours.
	var minSeconds, maxSeconds float64 = 0, 21600
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &slowmodePerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "seconds",
				Description: "Seconds between messages, 0 to disable",
				Required:    true,
				MinValue:    &minSeconds,
				MaxValue:    maxSeconds,
			},
		},
	}
}

func (c *SlowmodeCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	seconds := int(options(event).integer("seconds"))

	_, err = session.ChannelEdit(event.ChannelID, &discordgo.ChannelEdit{RateLimitPerUser: &seconds})
	if err != nil {
		return fmt.Errorf("set slowmode in %s: %w", event.ChannelID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindSlowmode,
		ModeratorID: invokerID(event),
		Action:      "Slowmode",
		ChannelID:   event.ChannelID,
		Duration:    seconds,
	})
	if err != nil {
		return fmt.Errorf("record slowmode in %s: %w", event.ChannelID, err)
	}

	if seconds == 0 {
		return Respond(session, event, fmt.Sprintf("Slowmode disabled. (Case #%d)", rec.ID))
	}
	return Respond(session, event, fmt.Sprintf("Slowmode set to %d seconds. (Case #%d)", seconds, rec.ID))
}

func init() {
	Register(cmd.Apply(&SlowmodeCommand{}, WithGuildOnly()))
}

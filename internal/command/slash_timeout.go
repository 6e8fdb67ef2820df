package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var timeoutPerms = int64(discordgo.PermissionModerateMembers)

// maxTimeout is the platform ceiling on communication timeouts.
const maxTimeout = 28 * 24 * time.Hour

var errBadDuration = errors.New("bad duration")

type TimeoutCommand struct{}

func (c *TimeoutCommand) Name() string        { return "timeout" }
func (c *TimeoutCommand) Description() string { return "Time out a member and record a case" }

func (c *TimeoutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &timeoutPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member to time out",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "duration",
				Description: "How long, like 1d, 1h30m, or 10s",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why the timeout is issued",
			},
		},
	}
}

func (c *TimeoutCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)

	targetID := opts.snowflake("user")
	moderatorID := invokerID(event)

	if targetID == moderatorID {
		return RespondEphemeral(session, event, "You can't time out yourself.")
	}
	if targetID == session.State.User.ID {
		return RespondEphemeral(session, event, "I'm not timing myself out, thanks.")
	}

	d, err := parseTimeoutDuration(opts.str("duration"))
	if err != nil {
		return RespondEphemeral(session, event, "Invalid duration format. Use \"1d\", \"1h30m\", or \"10s\".")
	}

	until := time.Now().Add(d)
	if err := session.GuildMemberTimeout(event.GuildID, targetID, &until); err != nil {
		return fmt.Errorf("timeout %s: %w", targetID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindModeration,
		UserID:      targetID,
		ModeratorID: moderatorID,
		Action:      "Timeout",
		Reason:      opts.str("reason"),
	})
	if err != nil {
		return fmt.Errorf("record timeout for %s: %w", targetID, err)
	}

	return Respond(session, event, fmt.Sprintf("<@%s> has been timed out for %s. (Case #%d)", targetID, d, rec.ID))
}

// parseTimeoutDuration reads a compact duration like "1d", "1h30m", or
// "10s". Units are d, h, m, s; the total is clamped to the 28-day ceiling.
func parseTimeoutDuration(input string) (time.Duration, error) {
	if input == "" {
		return 0, errBadDuration
	}

	var total time.Duration
	var n int64
	var digits bool
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int64(r-'0')
			digits = true
		case r == 'd' || r == 'h' || r == 'm' || r == 's':
			if !digits {
				return 0, errBadDuration
			}
			switch r {
			case 'd':
				total += time.Duration(n) * 24 * time.Hour
			case 'h':
				total += time.Duration(n) * time.Hour
			case 'm':
				total += time.Duration(n) * time.Minute
			case 's':
				total += time.Duration(n) * time.Second
			}
			n, digits = 0, false
		default:
			return 0, errBadDuration
		}
	}
	if digits {
		// Trailing number without a unit.
		return 0, errBadDuration
	}
	if total <= 0 {
		return 0, errBadDuration
	}
	if total > maxTimeout {
		total = maxTimeout
	}
	return total, nil
}

func init() {
	Register(cmd.Apply(&TimeoutCommand{}, WithGuildOnly()))
}

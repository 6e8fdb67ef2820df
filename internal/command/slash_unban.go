package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var unbanPerms = int64(discordgo.PermissionBanMembers)

type UnbanCommand struct{}

func (c *UnbanCommand) Name() string        { return "unban" }
func (c *UnbanCommand) Description() string { return "Unban a user and record a case" }

func (c *UnbanCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &unbanPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "user",
				Description: "User id or username of the banned user",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why the ban is lifted",
			},
		},
	}
}

func (c *UnbanCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)

	input := opts.str("user")

	bans, err := session.GuildBans(event.GuildID, 1000, "", "")
	if err != nil {
		return fmt.Errorf("list bans: %w", err)
	}
	ban := findBan(bans, input)
	if ban == nil {
		return RespondEphemeral(session, event, fmt.Sprintf("%s is not banned.", input))
	}

	if err := session.GuildBanDelete(event.GuildID, ban.User.ID); err != nil {
		return fmt.Errorf("unban %s: %w", ban.User.ID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindModeration,
		UserID:      ban.User.ID,
		ModeratorID: invokerID(event),
		Action:      "Unban",
		Reason:      opts.str("reason"),
	})
	if err != nil {
		return fmt.Errorf("record unban for %s: %w", ban.User.ID, err)
	}

	return Respond(session, event, fmt.Sprintf("<@%s> has been unbanned. (Case #%d)", ban.User.ID, rec.ID))
}

// findBan matches by id when the input is all digits, else by username.
func findBan(bans []*discordgo.GuildBan, input string) *discordgo.GuildBan {
	byID := isSnowflake(input)
	for _, b := range bans {
		if b.User == nil {
			continue
		}
		if byID && b.User.ID == input {
			return b
		}
		if !byID && b.User.Username == input {
			return b
		}
	}
	return nil
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func init() {
	Register(cmd.Apply(&UnbanCommand{}, WithGuildOnly()))
}

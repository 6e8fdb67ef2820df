package command

import (
	"context"
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var notePerms = int64(discordgo.PermissionModerateMembers)

type NoteCommand struct{}

func (c *NoteCommand) Name() string        { return "note" }
func (c *NoteCommand) Description() string { return "Attach or read a moderator note on a member" }

func (c *NoteCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &notePerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member the note is about",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "The note text; omit to read the current note",
			},
		},
	}
}

func (c *NoteCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}
	session, event := sc.Session, sc.Event
	opts := options(event)

	targetID := opts.snowflake("user")
	text := opts.str("text")

	if text == "" {
		note, err := sc.Storage.GetUserNote(event.GuildID, targetID)
		if err != nil {
			return fmt.Errorf("read note for %s: %w", targetID, err)
		}
		if note == "" {
			return RespondEphemeral(session, event, fmt.Sprintf("No note on <@%s>.", targetID))
		}
		return RespondEphemeral(session, event, fmt.Sprintf("Note on <@%s>: %s", targetID, note))
	}

	if err := sc.Storage.SetUserNote(event.GuildID, targetID, text); err != nil {
		return fmt.Errorf("save note for %s: %w", targetID, err)
	}

	rec, err := sc.Ledger.Append(ctx, event.GuildID, modlog.Entry{
		Kind:        modlog.KindNote,
		UserID:      targetID,
		ModeratorID: invokerID(event),
		Action:      "Note",
		Note:        text,
	})
	if err != nil {
		return fmt.Errorf("record note for %s: %w", targetID, err)
	}

	return RespondEphemeral(session, event, fmt.Sprintf("Note saved for <@%s>. (Case #%d)", targetID, rec.ID))
}

func init() {
	Register(cmd.Apply(&NoteCommand{}, WithGuildOnly()))
}

package command

import (
	"fmt"
	"strings"

	"modwarden/internal/modlog"
	"modwarden/internal/pager"

	"github.com/bwmarrin/discordgo"
)

// invokerID returns the id of the user behind an interaction, whether it
// arrived from a guild or a DM.
func invokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// caseLine renders one ledger record as a listing line.
func caseLine(rec modlog.Record) string {
	reason := rec.Reason
	if reason == "" {
		reason = "No reason provided"
	}
	return fmt.Sprintf("`#%d` **%s** <t:%d:R> by <@%s> - %s",
		rec.ID, rec.Action, rec.Timestamp.Unix(), rec.ModeratorID, reason)
}

// respondPages opens a pagination session over listing lines and sends the
// first page as the interaction response. Later pages are flipped in place
// by editing that response.
func respondPages(sc *SlashContext, title string, lines []string) error {
	chunks := pager.Chunk(lines, pager.PageSize)
	pages := make([]*discordgo.MessageEmbed, len(chunks))
	for idx, chunk := range chunks {
		pages[idx] = &discordgo.MessageEmbed{
			Title:       title,
			Color:       EmbedColor,
			Description: strings.Join(chunk, "\n"),
		}
	}

	s, i := sc.Session, sc.Event
	session := sc.Pagers.Open(invokerID(i), pages, func(v pager.View) error {
		return EditResponseView(s, i, v.Embed, v.Components)
	})

	view := session.View()
	return RespondView(s, i, view.Embed, view.Components)
}

package modlog

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Notification embed colors, one per mutation.
const (
	colorAppended = 0x3498db
	colorUpdated  = 0xf1c40f
	colorDeleted  = 0xe74c3c
)

// subject is the resolved display identity of a record's subject.
type subject struct {
	name      string
	avatarURL string
	mention   string
}

// caseEmbed builds the audit notification for one record. title carries the
// mutation variant (plain action, "Reason Updated", action + " (Deleted)").
func caseEmbed(rec Record, title string, color int, subj subject, moderatorMention, reason string) *discordgo.MessageEmbed {
	if reason == "" {
		reason = "No reason provided"
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Case #%d | %s", rec.ID, title),
		Color: color,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    subj.name,
			IconURL: subj.avatarURL,
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: subj.mention, Inline: true},
			{Name: "Moderator", Value: moderatorMention, Inline: true},
			{Name: "Reason", Value: reason, Inline: false},
		},
		Timestamp: rec.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}

	switch rec.Kind {
	case KindPurge:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Messages", Value: fmt.Sprintf("%d", rec.Amount), Inline: true,
		})
	case KindSlowmode:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Duration", Value: fmt.Sprintf("%ds", rec.Duration), Inline: true,
		})
	case KindNote:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Note", Value: rec.Note, Inline: false,
		})
	}

	return embed
}

package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// ChannelNotifier delivers audit embeds to guild channels under a shared
// send budget, so a burst of case activity can't eat the bot's global rate
// limit.
type ChannelNotifier struct {
	dg      *discordgo.Session
	limiter *rate.Limiter
}

func NewChannelNotifier(dg *discordgo.Session) *ChannelNotifier {
	return &ChannelNotifier{
		dg:      dg,
		limiter: rate.NewLimiter(rate.Every(time.Second/5), 5),
	}
}

// Send posts one embed. Blocks on the limiter; a cancelled context aborts
// the wait.
func (n *ChannelNotifier) Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := n.dg.ChannelMessageSendEmbed(channelID, embed)
	return err
}

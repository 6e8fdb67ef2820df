package command

import (
	"context"
	"fmt"
	"time"

	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check that the bot is alive" }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, err := slashContext(inv)
	if err != nil {
		return err
	}

	latency := sc.Session.HeartbeatLatency().Round(time.Millisecond)
	return Respond(sc.Session, sc.Event, fmt.Sprintf("Pong! Gateway latency: %s", latency))
}

func init() {
	Register(&PingCommand{})
}

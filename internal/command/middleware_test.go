package command

import (
	"context"
	"testing"

	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCommand struct {
	ran bool
}

func (c *recordingCommand) Name() string        { return "record" }
func (c *recordingCommand) Description() string { return "records invocations" }

func (c *recordingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	c.ran = true
	return nil
}

func guildInvocation(guildID string) *cmd.Invocation {
	return &cmd.Invocation{Data: &SlashContext{
		Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{GuildID: guildID}},
	}}
}

func TestGuildOnlyPassesGuildInvocations(t *testing.T) {
	inner := &recordingCommand{}
	c := cmd.Apply(inner, WithGuildOnly())

	err := c.Run(context.Background(), guildInvocation("guild-1"))

	require.NoError(t, err)
	assert.True(t, inner.ran)
}

func TestGuildOnlyRejectsDirectMessages(t *testing.T) {
	inner := &recordingCommand{}
	c := cmd.Apply(inner, WithGuildOnly())

	err := c.Run(context.Background(), guildInvocation(""))

	var rej *cmd.RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Contains(t, rej.Message, "only works in a server")
	assert.False(t, inner.ran)
}

func TestGuildOnlyKeepsInnerCommandReachable(t *testing.T) {
	inner := &recordingCommand{}
	c := cmd.Apply(inner, WithGuildOnly())

	assert.Equal(t, "record", c.Name())
	assert.Same(t, inner, cmd.Root(c))
}

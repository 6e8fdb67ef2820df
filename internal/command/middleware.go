package command

import (
	"context"

	"modwarden/pkg/cmd"
)

// WithGuildOnly gates a command to guild channels. Invocations arriving
// without a guild id (DMs) are refused with a rejection the dispatcher
// turns into an ephemeral notice.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			sc, err := slashContext(inv)
			if err != nil {
				return err
			}
			if sc.Event.GuildID == "" {
				return cmd.Reject("The `%s` command only works in a server.", c.Name())
			}
			return c.Run(ctx, inv)
		})
	}
}

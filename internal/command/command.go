// Package command holds the Discord-facing moderation commands, one file
// per slash command. Each file registers its command with the shared
// registry from init(); the gateway adapter dispatches into them through
// the router.
package command

import (
	"fmt"

	"modwarden/internal/modlog"
	"modwarden/internal/pager"
	"modwarden/internal/storage"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// SlashContext is the payload the gateway adapter attaches to an
// invocation for a slash command.
type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
	Ledger  *modlog.Ledger
	Pagers  *pager.Manager
}

// SlashProvider supplies the application command definition used at
// registration time.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Register adds a command to the shared registry. Called from init() in
// each command file.
func Register(c cmd.Command) {
	cmd.DefaultRegistry.Register(c)
}

// slashContext extracts the Discord payload from an invocation.
func slashContext(inv *cmd.Invocation) (*SlashContext, error) {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return nil, fmt.Errorf("wrong invocation payload type %T", inv.Data)
	}
	return sc, nil
}

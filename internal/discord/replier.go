package discord

import (
	"errors"
	"fmt"
	"sync"

	"modwarden/internal/router"

	"github.com/bwmarrin/discordgo"
)

// interactionReplier maps dispatcher events back to the interactions they
// came from, so gate notices and failure replies reach the right webhook.
// An interaction is bound for the duration of one dispatch.
type interactionReplier struct {
	dg   *discordgo.Session
	mu   sync.Mutex
	live map[string]*discordgo.InteractionCreate
}

func newInteractionReplier(dg *discordgo.Session) *interactionReplier {
	return &interactionReplier{
		dg:   dg,
		live: make(map[string]*discordgo.InteractionCreate),
	}
}

// bind registers an interaction under its event id and returns the cleanup.
func (r *interactionReplier) bind(eventID string, i *discordgo.InteractionCreate) func() {
	r.mu.Lock()
	r.live[eventID] = i
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.live, eventID)
		r.mu.Unlock()
	}
}

func (r *interactionReplier) lookup(eventID string) (*discordgo.InteractionCreate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.live[eventID]
	if !ok {
		return nil, fmt.Errorf("no live interaction for event %s", eventID)
	}
	return i, nil
}

// Notice is the ephemeral gate reply. Gates run before the handler, so the
// interaction cannot have been acknowledged yet.
func (r *interactionReplier) Notice(ev router.Event, message string) error {
	i, err := r.lookup(ev.ID)
	if err != nil {
		return err
	}
	return r.respondEphemeral(i, message)
}

// Failure sends the generic error notice. The handler may already have
// acknowledged the interaction before failing, in which case the initial
// response slot is taken and a followup is the only way to reach the user.
func (r *interactionReplier) Failure(ev router.Event, message string) error {
	i, err := r.lookup(ev.ID)
	if err != nil {
		return err
	}

	if err := r.respondEphemeral(i, message); err != nil {
		if isStaleInteraction(err) {
			return err
		}
		_, err = r.dg.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: message})
		return err
	}
	return nil
}

func (r *interactionReplier) respondEphemeral(i *discordgo.InteractionCreate, message string) error {
	return r.dg.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// isStaleInteraction reports whether the platform no longer recognizes the
// interaction token. Replying to a stale interaction is pointless; the
// dispatcher suppresses the attempt entirely.
func isStaleInteraction(err error) bool {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Message != nil {
		return rerr.Message.Code == discordgo.ErrCodeUnknownInteraction
	}
	return false
}

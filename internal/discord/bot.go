package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"modwarden/internal/command"
	"modwarden/internal/config"
	"modwarden/internal/cooldown"
	"modwarden/internal/modlog"
	"modwarden/internal/pager"
	"modwarden/internal/router"
	"modwarden/internal/storage"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Bot wires the Discord session to the dispatcher and its services.
type Bot struct {
	dg        *discordgo.Session
	cfg       *config.Config
	storage   *storage.Storage
	ledger    *modlog.Ledger
	router    *router.Router
	pagers    *pager.Manager
	cooldowns *cooldown.Tracker
	replier   *interactionReplier

	// ctx is the bot's lifecycle context; dispatches and rate-limited
	// registration waits stop with it. Set once in StartBot, before any
	// handler can fire.
	ctx context.Context

	// registerLimiter paces command registration calls across guilds.
	registerLimiter *rate.Limiter
}

// StartBot builds the bot and blocks until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Storage, caseStore modlog.Store) error {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	notifier := NewChannelNotifier(dg)
	resolver := &userResolver{dg: dg}
	replier := newInteractionReplier(dg)
	cooldowns := cooldown.New()

	b := &Bot{
		dg:              dg,
		cfg:             cfg,
		storage:         store,
		ledger:          modlog.NewLedger(caseStore, store, notifier, resolver),
		pagers:          pager.NewManager(),
		cooldowns:       cooldowns,
		replier:         replier,
		registerLimiter: rate.NewLimiter(rate.Every(time.Second/40), 1),
	}
	b.router = router.New(router.Config{
		Registry:  cmd.DefaultRegistry,
		Policies:  store,
		Cooldowns: cooldowns,
		Replier:   replier,
		Audit:     notifier,
		Users:     resolver,
		IsStale:   isStaleInteraction,
	})

	b.ctx = ctx

	go cooldown.RunSweeper(ctx, cooldowns)

	return b.run(ctx)
}

func (b *Bot) run(ctx context.Context) error {
	b.dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if !b.cfg.InitSlashCommands {
		log.Println("[INFO] Registering slash commands skipped")
	} else {
		for _, g := range r.Guilds {
			if err := b.registerCommands(g.ID); err != nil {
				log.Printf("[ERR] Error registering slash commands for guild %s: %v", g.ID, err)
			}
		}
	}

	log.Printf("[INFO] Discord bot %v is running.", s.State.User.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchSlash(s, i)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(s, i)
	}
}

func (b *Bot) dispatchSlash(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ev := router.Event{
		ID:         i.ID,
		UserID:     interactionUserID(i),
		GuildID:    i.GuildID,
		Command:    i.ApplicationCommandData().Name,
		ChannelID:  i.ChannelID,
		ReceivedAt: time.Now(),
	}

	unbind := b.replier.bind(ev.ID, i)
	defer unbind()

	inv := &cmd.Invocation{
		Data: &command.SlashContext{
			Session: s,
			Event:   i,
			Storage: b.storage,
			Ledger:  b.ledger,
			Pagers:  b.pagers,
		},
	}

	b.router.Dispatch(b.ctx, ev, inv)
}

func (b *Bot) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	userID := interactionUserID(i)

	handled, err := b.pagers.Handle(userID, customID)
	if !handled {
		log.Printf("[WARN] No matching component for customID: %s", customID)
		return
	}

	switch {
	case err == nil:
		// The session already edited the original message; the press itself
		// just needs acknowledging.
		ackErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		if ackErr != nil && !isStaleInteraction(ackErr) {
			log.Printf("[WARN] Failed to acknowledge component press: %v", ackErr)
		}
	case err == pager.ErrNotOwner:
		b.respondComponentEphemeral(s, i, "These controls belong to whoever ran the command.")
	case err == pager.ErrEnded:
		b.respondComponentEphemeral(s, i, "This view has expired. Run the command again.")
	default:
		log.Printf("[ERR] Error handling component %s: %v", customID, err)
	}
}

func (b *Bot) respondComponentEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil && !isStaleInteraction(err) {
		log.Printf("[WARN] Failed to reply to component press: %v", err)
	}
}

// registerCommands reconciles the guild's slash commands with the registry:
// obsolete remote commands are deleted, current ones recreated. Creation is
// paced by the shared limiter.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return err
		}
		appID = user.ID
	}

	wanted := make(map[string]*discordgo.ApplicationCommand)
	for _, c := range cmd.DefaultRegistry.All() {
		if slash, ok := cmd.Root(c).(command.SlashProvider); ok {
			if def := slash.SlashDefinition(); def != nil {
				wanted[def.Name] = def
			}
		}
	}

	existing, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		// Obsolete commands stay until the next reconcile; creation below
		// still overwrites by name.
		log.Printf("[WARN] [%s] Failed to list existing commands: %v", guildID, err)
	}
	for _, old := range obsoleteCommands(existing, wanted) {
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
		if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
			log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
		}
	}

	for name, def := range wanted {
		if err := b.registerLimiter.Wait(b.ctx); err != nil {
			return err
		}
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Printf("[ERR] Can't create command %s: %v", name, err)
		} else {
			log.Printf("[DONE] Command created: %s", name)
		}
	}
	return nil
}

// obsoleteCommands returns the remote commands the registry no longer
// defines.
func obsoleteCommands(existing []*discordgo.ApplicationCommand, wanted map[string]*discordgo.ApplicationCommand) []*discordgo.ApplicationCommand {
	var out []*discordgo.ApplicationCommand
	for _, old := range existing {
		if _, ok := wanted[old.Name]; !ok {
			out = append(out, old)
		}
	}
	return out
}

// interactionUserID returns the invoking user's id for guild and DM
// interactions alike.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// userResolver resolves ids through the session cache, falling back to the
// REST API for users the bot hasn't seen yet.
type userResolver struct {
	dg *discordgo.Session
}

func (r *userResolver) ResolveUser(userID string) (name, avatarURL string) {
	u, err := r.dg.User(userID)
	if err != nil {
		log.Printf("[WARN] Failed to resolve user %s: %v", userID, err)
		return userID, ""
	}
	return u.Username, u.AvatarURL("")
}

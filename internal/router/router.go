// Package router dispatches inbound interaction events to registered
// commands. It owns the gates in front of handler execution (guild-level
// command enablement, per-user cooldowns) and the recovery path around it:
// handler errors and panics stop at the router boundary and become a generic
// user-visible notice, except for stale interactions, which are swallowed
// entirely.
package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"modwarden/internal/cooldown"
	"modwarden/internal/metrics"
	"modwarden/internal/storage"
	"modwarden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

const failureMessage = "There was an error while executing this command!"

// Event is one inbound command invocation, already decoded by the gateway
// adapter. Transient; never persisted.
type Event struct {
	ID         string
	UserID     string
	GuildID    string
	Command    string
	ChannelID  string
	ReceivedAt time.Time
}

// Outcome classifies how a dispatch ended.
type Outcome string

const (
	OutcomeHandled        Outcome = "handled"
	OutcomeUnknownCommand Outcome = "unknown_command"
	OutcomeDisabled       Outcome = "disabled"
	OutcomeCoolingDown    Outcome = "cooling_down"
	OutcomeRejected       Outcome = "rejected"
	OutcomeFailed         Outcome = "failed"
)

// PolicyStore supplies per-guild settings. A guild without stored settings
// returns the zero policy: nothing disabled, logging off.
type PolicyStore interface {
	GuildPolicy(guildID string) (storage.GuildPolicy, error)
}

// Replier sends user-visible replies for an event. Notice is the ephemeral
// gate reply (disabled command, cooldown). Failure is the generic error
// notice; implementations send a follow-up when the interaction was already
// acknowledged, else a fresh reply.
type Replier interface {
	Notice(ev Event, message string) error
	Failure(ev Event, message string) error
}

// Sink receives the best-effort "command executed" audit embed.
type Sink interface {
	Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// UserResolver resolves ids to display identity for the audit embed.
type UserResolver interface {
	ResolveUser(userID string) (name, avatarURL string)
}

// CooldownProvider is implemented by commands that override the default
// cooldown with a longer one.
type CooldownProvider interface {
	Cooldown() time.Duration
}

// Config wires a Router. Audit, Users, and IsStale are optional.
type Config struct {
	Registry  *cmd.Registry
	Policies  PolicyStore
	Cooldowns *cooldown.Tracker
	Replier   Replier
	Audit     Sink
	Users     UserResolver

	// IsStale classifies platform errors meaning the originating
	// interaction is no longer valid and any reply would itself fail.
	IsStale func(error) bool
}

type Router struct {
	registry  *cmd.Registry
	policies  PolicyStore
	cooldowns *cooldown.Tracker
	replier   Replier
	audit     Sink
	users     UserResolver
	isStale   func(error) bool
	now       func() time.Time
}

func New(cfg Config) *Router {
	isStale := cfg.IsStale
	if isStale == nil {
		isStale = func(error) bool { return false }
	}
	return &Router{
		registry:  cfg.Registry,
		policies:  cfg.Policies,
		cooldowns: cfg.Cooldowns,
		replier:   cfg.Replier,
		audit:     cfg.Audit,
		users:     cfg.Users,
		isStale:   isStale,
		now:       time.Now,
	}
}

// Dispatch runs one event through the gates and the handler. Every failure
// is absorbed here; callers get an outcome, never an error.
func (r *Router) Dispatch(ctx context.Context, ev Event, inv *cmd.Invocation) Outcome {
	outcome := r.dispatch(ctx, ev, inv)
	metrics.CommandsDispatched.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (r *Router) dispatch(ctx context.Context, ev Event, inv *cmd.Invocation) Outcome {
	c := r.registry.Get(ev.Command)
	if c == nil {
		// A command Discord knows but we don't is a registration bug, not a
		// user error; no reply.
		log.Printf("[WARN] Unknown command: %s (guild %s)", ev.Command, ev.GuildID)
		return OutcomeUnknownCommand
	}

	policy, err := r.policies.GuildPolicy(ev.GuildID)
	if err != nil {
		log.Printf("[WARN] Failed to load policy for guild %s, using defaults: %v", ev.GuildID, err)
		policy = storage.GuildPolicy{GuildID: ev.GuildID}
	}

	if slices.Contains(policy.DisabledCommands, ev.Command) {
		r.notice(ev, fmt.Sprintf("The `%s` command is disabled in this server.", ev.Command))
		return OutcomeDisabled
	}

	allowed, retryAt := r.cooldowns.CheckAndStart(ev.Command, ev.UserID, commandCooldown(c))
	if !allowed {
		r.notice(ev, fmt.Sprintf(
			"Please wait, you are on a cooldown for `%s`. You can use it again <t:%d:R>.",
			ev.Command, retryAt.Unix(),
		))
		return OutcomeCoolingDown
	}

	if err := r.invoke(ctx, c, inv); err != nil {
		var rej *cmd.RejectionError
		if errors.As(err, &rej) {
			// Middleware refused the invocation; the message is for the user,
			// not the error log.
			r.notice(ev, rej.Message)
			return OutcomeRejected
		}
		if r.isStale(err) {
			log.Printf("[INFO] Interaction %s expired before /%s completed, suppressing reply", ev.ID, ev.Command)
			return OutcomeFailed
		}
		log.Printf("[ERR] Error running /%s: %v", ev.Command, err)
		if ferr := r.replier.Failure(ev, failureMessage); ferr != nil && !r.isStale(ferr) {
			log.Printf("[ERR] Failed to deliver failure notice for /%s: %v", ev.Command, ferr)
		}
		return OutcomeFailed
	}

	r.auditExecution(ctx, ev, policy)
	return OutcomeHandled
}

// invoke runs the handler, converting panics into errors so one misbehaving
// command cannot take down the dispatcher.
func (r *Router) invoke(ctx context.Context, c cmd.Command, inv *cmd.Invocation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return c.Run(ctx, inv)
}

func (r *Router) notice(ev Event, message string) {
	if err := r.replier.Notice(ev, message); err != nil && !r.isStale(err) {
		log.Printf("[WARN] Failed to reply to /%s: %v", ev.Command, err)
	}
}

// auditExecution emits the "command executed" line to the guild's log
// channel when logging is enabled. Best-effort: failures are logged, never
// surfaced to the invoking user.
func (r *Router) auditExecution(ctx context.Context, ev Event, policy storage.GuildPolicy) {
	if r.audit == nil || !policy.LoggingEnabled || policy.LogChannelID == "" {
		return
	}

	name, avatar := ev.UserID, ""
	if r.users != nil {
		name, avatar = r.users.ResolveUser(ev.UserID)
	}

	embed := &discordgo.MessageEmbed{
		Color:       0x0099ff,
		Author:      &discordgo.MessageEmbedAuthor{Name: name, IconURL: avatar},
		Description: fmt.Sprintf("Ran command `/%s` in <#%s>", ev.Command, ev.ChannelID),
		Timestamp:   r.now().UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if err := r.audit.Send(ctx, policy.LogChannelID, embed); err != nil {
		metrics.NotificationsFailed.Inc()
		log.Printf("[WARN] Failed to write command log for guild %s: %v", ev.GuildID, err)
	}
}

// commandCooldown returns the command's declared cooldown, or the default.
// Root unwraps middleware so the provider interface on the inner command is
// still visible.
func commandCooldown(c cmd.Command) time.Duration {
	if p, ok := cmd.Root(c).(CooldownProvider); ok {
		return p.Cooldown()
	}
	return cooldown.Default
}
